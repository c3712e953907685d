package blindbench

import (
	"encoding/json"
	"fmt"

	"github.com/ai8future/blindbench/store"
)

// PersonRecord is the plaintext unit of the dataset. ID is assigned by the
// store at creation and immutable thereafter; it is never part of the
// encrypted payload.
type PersonRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	City    string `json:"city"`
	Company string `json:"company"`
}

// personPayload is the encrypted JSON body: PersonRecord minus the ID.
type personPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	City    string `json:"city"`
	Company string `json:"company"`
}

// SealRecord encrypts a person record into its stored form. The JSON
// serialization excludes the id; a fresh nonce is generated per call.
func SealRecord(p PersonRecord, encKey []byte) (store.Record, error) {
	payload, err := json.Marshal(personPayload{
		Name:    p.Name,
		Email:   p.Email,
		City:    p.City,
		Company: p.Company,
	})
	if err != nil {
		return store.Record{}, err
	}
	ciphertext, iv, err := Encrypt(payload, encKey)
	if err != nil {
		return store.Record{}, err
	}
	return store.Record{
		ID:         p.ID,
		Ciphertext: ciphertext,
		IV:         iv,
		Version:    1,
	}, nil
}

// OpenRecord decrypts a stored record back into its plaintext form, filling
// the ID from the store document. A failed tag check surfaces as
// ErrAuthenticationFailed wrapped with the record id, so callers can report
// which record was unreadable instead of silently skipping it.
func OpenRecord(rec store.Record, encKey []byte) (PersonRecord, error) {
	plaintext, err := Decrypt(rec.Ciphertext, rec.IV, encKey)
	if err != nil {
		return PersonRecord{}, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	var payload personPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return PersonRecord{}, fmt.Errorf("record %s: %w: %v", rec.ID, ErrInvalidFormat, err)
	}
	return PersonRecord{
		ID:      rec.ID,
		Name:    payload.Name,
		Email:   payload.Email,
		City:    payload.City,
		Company: payload.Company,
	}, nil
}
