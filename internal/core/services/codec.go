package services

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gowebpki/jcs"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

//go:embed snapshot.schema.json
var snapshotSchemaJSON string

const snapshotSchemaURL = "https://sanctrack.local/schema/snapshot.json"

var (
	snapshotSchemaOnce sync.Once
	snapshotSchema     *jsonschema.Schema
	snapshotSchemaErr  error
)

// snapshotRecord is the persisted form of an entry. Field order is part of
// the format: type, reference_number, name, aliases.
type snapshotRecord struct {
	Type            domain.EntityType `json:"type"`
	ReferenceNumber string            `json:"reference_number"`
	Name            string            `json:"name"`
	Aliases         []string          `json:"aliases"`
}

// EncodeSnapshot serialises a snapshot as an indented JSON array.
func EncodeSnapshot(s domain.Snapshot) ([]byte, error) {
	records := make([]snapshotRecord, len(s))
	for i, e := range s {
		aliases := e.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		records[i] = snapshotRecord{
			Type:            e.Type,
			ReferenceNumber: e.ReferenceNumber,
			Name:            e.Name,
			Aliases:         aliases,
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// DecodeSnapshot parses data written by EncodeSnapshot. A JSON null decodes
// to an empty snapshot. The document is checked against the snapshot schema
// before it is decoded.
func DecodeSnapshot(data []byte) (domain.Snapshot, error) {
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptSnapshot, err)
	}

	schema, err := compiledSnapshotSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(generic); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptSnapshot, err)
	}

	var records []snapshotRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptSnapshot, err)
	}

	snapshot := make(domain.Snapshot, len(records))
	for i, r := range records {
		aliases := r.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		snapshot[i] = domain.Entry{
			Type:            r.Type,
			ReferenceNumber: r.ReferenceNumber,
			Name:            r.Name,
			Aliases:         aliases,
		}
	}
	return snapshot, nil
}

// SnapshotDigest returns "sha256:<hex>" over the RFC 8785 canonical form of
// the encoded snapshot.
func SnapshotDigest(s domain.Snapshot) (string, error) {
	encoded, err := EncodeSnapshot(s)
	if err != nil {
		return "", err
	}
	canonical, err := jcs.Transform(encoded)
	if err != nil {
		return "", fmt.Errorf("canonicalise snapshot: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}

func compiledSnapshotSchema() (*jsonschema.Schema, error) {
	snapshotSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(snapshotSchemaURL, bytes.NewReader([]byte(snapshotSchemaJSON))); err != nil {
			snapshotSchemaErr = fmt.Errorf("load snapshot schema: %w", err)
			return
		}
		snapshotSchema, snapshotSchemaErr = c.Compile(snapshotSchemaURL)
		if snapshotSchemaErr != nil {
			snapshotSchemaErr = fmt.Errorf("compile snapshot schema: %w", snapshotSchemaErr)
		}
	})
	return snapshotSchema, snapshotSchemaErr
}
