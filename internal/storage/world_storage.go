package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/annel0/terragen/internal/logging"
	"github.com/annel0/terragen/internal/world"
	"github.com/dgraph-io/badger/v3"
)

// WorldStorage кэш готовых миров в BadgerDB, ключ = отпечаток конфигурации.
// Кэш не является источником истины: повреждённая или устаревшая
// запись считается промахом, и мир генерируется заново.
type WorldStorage struct {
	db      *badger.DB
	codec   *Codec
	logger  *logging.Logger
	mutex   sync.RWMutex
	isReady bool
}

// NewWorldStorage открывает хранилище в каталоге dataPath
func NewWorldStorage(dataPath string, logger *logging.Logger) (*WorldStorage, error) {
	opts := badger.DefaultOptions(dataPath)
	opts.Logger = nil // Отключаем логирование BadgerDB
	return open(opts, logger)
}

// NewMemoryWorldStorage хранилище в памяти, без файлов на диске
func NewMemoryWorldStorage(logger *logging.Logger) (*WorldStorage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	return open(opts, logger)
}

func open(opts badger.Options, logger *logging.Logger) (*WorldStorage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}
	codec, err := NewCodec()
	if err != nil {
		db.Close()
		return nil, err
	}
	return &WorldStorage{db: db, codec: codec, logger: logger, isReady: true}, nil
}

// Close закрывает хранилище данных
func (ws *WorldStorage) Close() error {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()

	if !ws.isReady {
		return nil
	}

	ws.isReady = false
	ws.codec.Close()
	return ws.db.Close()
}

func worldKey(fingerprint uint64) []byte {
	return []byte(fmt.Sprintf("world:%016x", fingerprint))
}

// Store сохраняет мир под его отпечатком
func (ws *WorldStorage) Store(ctx context.Context, w *world.World) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	data, err := ws.codec.Encode(w.Export())
	if err != nil {
		return fmt.Errorf("ошибка сериализации мира: %w", err)
	}

	err = ws.db.Update(func(txn *badger.Txn) error {
		return txn.Set(worldKey(w.Fingerprint()), data)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}

	ws.logger.Debug("мир %016x сохранён (%d байт)", w.Fingerprint(), len(data))
	return nil
}

// Load загружает мир по отпечатку. Отсутствие записи, другая версия
// формата или несовпадение отпечатка возвращают (nil, false, nil).
func (ws *WorldStorage) Load(ctx context.Context, fingerprint uint64) (*world.World, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return nil, false, fmt.Errorf("хранилище не готово")
	}

	var data []byte
	err := ws.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(worldKey(fingerprint))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	snap, err := ws.codec.Decode(data)
	if err != nil {
		ws.logger.Warn("запись %016x не читается, игнорируем: %v", fingerprint, err)
		return nil, false, nil
	}
	if snap.Fingerprint != fingerprint {
		ws.logger.Warn("запись %016x содержит чужой отпечаток %016x", fingerprint, snap.Fingerprint)
		return nil, false, nil
	}

	w, err := world.Restore(snap)
	if err != nil {
		ws.logger.Warn("запись %016x не восстанавливается: %v", fingerprint, err)
		return nil, false, nil
	}
	return w, true, nil
}

// Delete удаляет запись; отсутствие записи не ошибка
func (ws *WorldStorage) Delete(fingerprint uint64) error {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return fmt.Errorf("хранилище не готово")
	}
	return ws.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(worldKey(fingerprint))
	})
}

var _ world.Cache = (*WorldStorage)(nil)
