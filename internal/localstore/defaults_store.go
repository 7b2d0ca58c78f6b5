package localstore

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/caffeinepub/total-amount-calculator-app/internal/model"
)

// DefaultsStore persists the branch's current print-format defaults. These
// are snapshotted onto each bill at print time, so editing them never alters
// historical bills.
type DefaultsStore struct {
	kv KV
}

func NewDefaultsStore(kv KV) *DefaultsStore {
	return &DefaultsStore{kv: kv}
}

// Load returns the branch's defaults, substituting the classic receipt style
// for missing or corrupt payloads.
func (d *DefaultsStore) Load(branch string) (model.BillFormatDefaults, error) {
	key, err := ScopedKey(branch, BaseBillDefaults)
	if err != nil {
		return model.BillFormatDefaults{}, err
	}
	fallback := model.BillFormatDefaults{ReceiptStyle: model.DefaultReceiptStyle}
	raw, ok := d.kv.Get(key)
	if !ok {
		return fallback, nil
	}
	var defaults model.BillFormatDefaults
	if err := json.Unmarshal([]byte(raw), &defaults); err != nil {
		log.Warn().Str("branch", branch).Msg("corrupt bill-defaults payload, using defaults")
		return fallback, nil
	}
	if defaults.ReceiptStyle == "" {
		defaults.ReceiptStyle = model.DefaultReceiptStyle
	}
	return defaults, nil
}

// Save persists the defaults. Write failures propagate — the caller asked to
// change a setting and needs to know it did not stick.
func (d *DefaultsStore) Save(branch string, defaults model.BillFormatDefaults) error {
	key, err := ScopedKey(branch, BaseBillDefaults)
	if err != nil {
		return err
	}
	data, err := json.Marshal(defaults)
	if err != nil {
		return err
	}
	if err := d.kv.Set(key, string(data)); err != nil {
		return fmt.Errorf("save bill defaults: %w", err)
	}
	return nil
}
