package consolidated

import (
	"context"
	"io"
	"strings"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driven"
	"github.com/custodia-labs/sanctrack/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.DocumentNormaliser = (*Normaliser)(nil)

// Format identifies the documents this normaliser reads.
const Format = "un-consolidated-xml"

// Tag names in the consolidated list schema.
const (
	tagIndividuals     = "INDIVIDUALS"
	tagIndividual      = "INDIVIDUAL"
	tagReferenceNumber = "REFERENCE_NUMBER"
	tagIndividualAlias = "INDIVIDUAL_ALIAS"
	tagAliasName       = "ALIAS_NAME"
	nameSuffix         = "_NAME"
)

// Normaliser converts consolidated list XML into a snapshot.
type Normaliser struct {
	nameSelector FieldSelector
}

// Option configures a Normaliser.
type Option func(*Normaliser)

// WithNameSelector replaces the rule choosing which fields form the name.
func WithNameSelector(sel FieldSelector) Option {
	return func(n *Normaliser) {
		if sel != nil {
			n.nameSelector = sel
		}
	}
}

// New creates a consolidated list normaliser.
func New(opts ...Option) *Normaliser {
	n := &Normaliser{nameSelector: NameFields}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Format returns the document format name.
func (n *Normaliser) Format() string {
	return Format
}

// Normalise parses r and returns one entry per INDIVIDUAL record, in
// document order. A document without an INDIVIDUALS element yields an
// empty snapshot.
func (n *Normaliser) Normalise(ctx context.Context, r io.Reader) (domain.Snapshot, error) {
	if r == nil {
		return nil, domain.ErrInvalidInput
	}

	root, err := parseTree(ctx, r)
	if err != nil {
		return nil, err
	}

	container := root.child(tagIndividuals)
	if container == nil {
		logger.Debug("No %s element under <%s>", tagIndividuals, root.Name)
		return domain.Snapshot{}, nil
	}

	records := container.childrenNamed(tagIndividual)
	snapshot := make(domain.Snapshot, 0, len(records))
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		snapshot = append(snapshot, n.entry(rec))
	}

	return snapshot, nil
}

func (n *Normaliser) entry(rec *element) domain.Entry {
	return domain.Entry{
		Type:            domain.EntityIndividual,
		ReferenceNumber: referenceNumber(rec),
		Name:            n.name(rec),
		Aliases:         aliases(rec),
	}
}

func referenceNumber(rec *element) string {
	ref, _ := rec.childText(tagReferenceNumber)
	if ref == "" {
		return domain.UnknownReference
	}
	return ref
}

// name joins the trimmed text of the selected fields. Empty fields keep
// their position, so two adjacent separators can appear before the final trim.
func (n *Normaliser) name(rec *element) string {
	var parts []string
	for i, field := range rec.Children {
		if n.nameSelector(field.Name, i) {
			parts = append(parts, strings.TrimSpace(field.Text))
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func aliases(rec *element) []string {
	out := []string{}
	for _, alias := range rec.childrenNamed(tagIndividualAlias) {
		text, ok := alias.childText(tagAliasName)
		if !ok {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			out = append(out, text)
		}
	}
	return out
}
