package booking

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vitalsalud/agenda/internal/clinic"
)

// Selection is the appointment a patient is in the middle of booking. It
// survives page reloads, so it lives in an external key-value slot rather
// than in memory.
type Selection struct {
	DoctorID   int             `json:"doctorId"`
	DoctorName string          `json:"doctorName"`
	Specialty  string          `json:"specialty"`
	SlotID     int             `json:"slotId"`
	Date       string          `json:"date"`
	Time       string          `json:"time"`
	Price      float64         `json:"price"`
	Modality   clinic.Modality `json:"consultationType"`
	Location   string          `json:"location"`
}

// KV is the opaque persistence collaborator. The draft store only ever
// touches one key per session.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}

type DraftStore struct {
	kv KV
}

func NewDraftStore(kv KV) *DraftStore {
	return &DraftStore{kv: kv}
}

func draftKey(sessionID string) string {
	return "draft:selected:" + sessionID
}

// Selected returns the stored selection, or nil when none exists. A value
// that no longer decodes is treated as absent.
func (d *DraftStore) Selected(ctx context.Context, sessionID string) (*Selection, error) {
	raw, ok, err := d.kv.Get(ctx, draftKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var sel Selection
	if err := json.Unmarshal([]byte(raw), &sel); err != nil {
		return nil, nil
	}
	return &sel, nil
}

// SetSelected persists the selection; a nil selection clears the slot.
func (d *DraftStore) SetSelected(ctx context.Context, sessionID string, sel *Selection) error {
	if sel == nil {
		return d.Clear(ctx, sessionID)
	}
	raw, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := d.kv.Set(ctx, draftKey(sessionID), string(raw)); err != nil {
		return fmt.Errorf("store draft: %w", err)
	}
	return nil
}

func (d *DraftStore) Clear(ctx context.Context, sessionID string) error {
	if err := d.kv.Del(ctx, draftKey(sessionID)); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
