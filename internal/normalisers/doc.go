// Package normalisers holds the DocumentNormaliser implementations, one
// sub-package per input format. Each turns a published list into a
// domain.Snapshot in document order.
//
// The consolidated package reads the UN consolidated sanctions list XML.
package normalisers
