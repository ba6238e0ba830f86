package badgerfx

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

type EntityFactory[T Entity] func() T

// Repository provides typed access to entities inside caller-owned transactions.
type Repository[T Entity] struct {
	zero    T
	factory EntityFactory[T]
}

func NewRepository[T Entity](factory EntityFactory[T]) *Repository[T] {
	var zero T
	return &Repository[T]{
		zero:    zero,
		factory: factory,
	}
}

// List returns entities stored under prefix. With options.Reverse the newest
// keys come first.
func (r *Repository[T]) List(
	txn *badger.Txn,
	prefix string,
	options badger.IteratorOptions,
	predicate func(T) bool,
) ([]T, error) {
	validPrefix := []byte(prefix)
	seekPrefix := []byte(prefix)
	if options.Reverse {
		seekPrefix = append(seekPrefix, SeekEnd)
	}

	it := txn.NewIterator(options)
	defer it.Close()

	var entities []T
	for it.Seek(seekPrefix); it.ValidForPrefix(validPrefix); it.Next() {
		entity, err := r.decode(it.Item())
		if err != nil {
			return nil, err
		}

		if predicate != nil && !predicate(entity) {
			continue
		}

		entities = append(entities, entity)
	}

	return entities, nil
}

// ListByIndex resolves every index key under prefix to its entity.
func (r *Repository[T]) ListByIndex(txn *badger.Txn, prefix string) ([]T, error) {
	validPrefix := []byte(prefix)

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true

	it := txn.NewIterator(opts)
	defer it.Close()

	var entities []T
	for it.Seek(validPrefix); it.ValidForPrefix(validPrefix); it.Next() {
		key, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to get entity key: %w", err)
		}

		entity, err := r.readKey(txn, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		entities = append(entities, entity)
	}

	return entities, nil
}

func (r *Repository[T]) Read(txn *badger.Txn, key string) (T, error) {
	return r.readKey(txn, []byte(key))
}

// ReadByIndex resolves a unique index key to its entity.
func (r *Repository[T]) ReadByIndex(txn *badger.Txn, index string) (T, error) {
	item, err := txn.Get([]byte(index))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return r.zero, ErrNotFound
	}
	if err != nil {
		return r.zero, fmt.Errorf("failed to get entity index: %w", err)
	}

	key, err := item.ValueCopy(nil)
	if err != nil {
		return r.zero, fmt.Errorf("failed to get entity key: %w", err)
	}

	return r.readKey(txn, key)
}

func (r *Repository[T]) Write(txn *badger.Txn, entity T) error {
	data, err := entity.MarshalStorage()
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	if indexErr := r.CreateIndexes(txn, entity); indexErr != nil {
		return indexErr
	}

	if setErr := txn.Set([]byte(entity.StorageKey()), data); setErr != nil {
		return fmt.Errorf("failed to write entity: %w", setErr)
	}

	return nil
}

// Replace swaps old for updated, moving any index keys that changed.
func (r *Repository[T]) Replace(txn *badger.Txn, old, updated T) error {
	if err := r.DeleteIndexes(txn, old); err != nil {
		return err
	}

	return r.Write(txn, updated)
}

func (r *Repository[T]) Delete(txn *badger.Txn, key string) (T, error) {
	entity, err := r.Read(txn, key)
	if err != nil {
		return r.zero, err
	}

	if indexErr := r.DeleteIndexes(txn, entity); indexErr != nil {
		return r.zero, indexErr
	}

	if delErr := txn.Delete([]byte(key)); delErr != nil {
		return r.zero, fmt.Errorf("failed to delete entity: %w", delErr)
	}

	return entity, nil
}

func (r *Repository[T]) CreateIndexes(txn *badger.Txn, entity T) error {
	key := []byte(entity.StorageKey())
	for _, index := range entity.StorageIndexes() {
		if err := txn.Set([]byte(index), key); err != nil {
			return fmt.Errorf("failed to set entity index: %w", err)
		}
	}

	return nil
}

func (r *Repository[T]) DeleteIndexes(txn *badger.Txn, entity T) error {
	for _, index := range entity.StorageIndexes() {
		if err := txn.Delete([]byte(index)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to delete entity index: %w", err)
		}
	}

	return nil
}

func (r *Repository[T]) readKey(txn *badger.Txn, key []byte) (T, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return r.zero, ErrNotFound
	}
	if err != nil {
		return r.zero, fmt.Errorf("failed to get entity: %w", err)
	}

	return r.decode(item)
}

func (r *Repository[T]) decode(item *badger.Item) (T, error) {
	entity := r.factory()
	if err := item.Value(func(val []byte) error {
		return entity.UnmarshalStorage(val)
	}); err != nil {
		return r.zero, fmt.Errorf("failed to unmarshal entity: %w", err)
	}

	return entity, nil
}
