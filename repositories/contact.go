//go:generate go run go.uber.org/mock/mockgen -source=contact.go -destination=../mocks/mock_contact_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IContactRepository interface {
	StoreInquiry(inquiry Inquiry) error
	GetInquiries(centerID string, cursor *string) ([]Inquiry, *string, error)
}

type ContactRepository struct {
	db    *badger.DB
	limit *int
}

func NewContactRepository(db *badger.DB, limit *int) ContactRepository {
	return ContactRepository{db: db, limit: limit}
}

// Inquiry is a persisted visitor question about a center. The realtime event
// is only the announcement; this row is what an offline admin reads later.
type Inquiry struct {
	ID          uuid.UUID `json:"id"`
	CenterID    string    `json:"center_id"`
	SenderName  string    `json:"sender_name"`
	SenderEmail string    `json:"sender_email"`
	Subject     string    `json:"subject"`
	At          time.Time `json:"at"`
}

// StoreInquiry persists the inquiry under "inq:{center_id}:{timestamp_padded}:{uuid}",
// the same key scheme as messages: padded timestamps sort chronologically and
// the UUID disconnects same-nanosecond collisions.
func (c ContactRepository) StoreInquiry(inquiry Inquiry) error {
	key := fmt.Sprintf("inq:%s:%019d:%s",
		inquiry.CenterID,
		inquiry.At.UnixNano(),
		inquiry.ID,
	)
	bytes, err := json.Marshal(inquiry)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetInquiries pages a center's inquiries newest-first. The returned cursor
// is the key suffix of the last row; passing it back resumes right after it.
func (c ContactRepository) GetInquiries(centerID string, cursor *string) ([]Inquiry, *string, error) {
	var raw [][]byte
	var lastKey string

	err := c.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("inq:%s:", centerID)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible key, then walk backwards.
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if c.limit != nil && len(raw) == *c.limit {
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				raw = append(raw, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var inquiries []Inquiry
	for _, b := range raw {
		var inquiry Inquiry
		if err = json.Unmarshal(b, &inquiry); err != nil {
			return nil, nil, err
		}
		inquiries = append(inquiries, inquiry)
	}
	return inquiries, &lastKey, nil
}
