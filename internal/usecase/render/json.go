package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"newsletter-press/internal/domain/entity"
)

// renderJSON exports the full draft, metadata included, as indented JSON.
// The export is lossless: DecodeDraft restores an equal draft.
func renderJSON(d *entity.Draft) (string, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeDraft parses a JSON export back into a draft. Unknown fields are
// rejected so a mangled export fails loudly instead of importing as an
// empty draft.
func DecodeDraft(data []byte) (*entity.Draft, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var d entity.Draft
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}
