package consolidated

import "strings"

// FieldSelector reports whether the field with the given tag, at the given
// position among the record's children, contributes to the entry name.
type FieldSelector func(tag string, position int) bool

// NameFields selects every field whose tag ends in "_NAME" except ALIAS_NAME.
func NameFields(tag string, _ int) bool {
	return strings.HasSuffix(tag, nameSuffix) && tag != tagAliasName
}
