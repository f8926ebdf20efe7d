//go:generate go run go.uber.org/mock/mockgen -source=center.go -destination=../mocks/mock_center_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"center-hub/errors"

	"github.com/dgraph-io/badger/v4"
)

type ICenterRepository interface {
	SaveCenter(center Center) error
	GetCenter(centerID string) (Center, error)
}

type CenterRepository struct {
	db *badger.DB
}

func NewCenterRepository(db *badger.DB) ICenterRepository {
	return &CenterRepository{db: db}
}

// Center is a community center's directory entry. AdminID names the account
// that receives the center's inquiries; it is never taken from client input.
type Center struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AdminID   string    `json:"admin_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (c CenterRepository) SaveCenter(center Center) error {
	data, err := json.Marshal(center)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("center:"+center.ID), data)
	})
}

func (c CenterRepository) GetCenter(centerID string) (Center, error) {
	var center Center

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("center:" + centerID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &center)
		})
	})
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return Center{}, errors.ErrCenterNotFound
		}
		return Center{}, err
	}
	return center, nil
}
