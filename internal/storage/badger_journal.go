package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/klauspost/compress/zstd"
)

var journalPrefix = []byte("journal:")

// BadgerJournal хранит журнал в BadgerDB. Значения сжаты zstd.
type BadgerJournal struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool
	seq     uint64

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewBadgerJournal открывает журнал в каталоге dataPath/journal.
// Пустой dataPath открывает базу в памяти.
func NewBadgerJournal(dataPath string) (*BadgerJournal, error) {
	var opts badger.Options
	dbPath := ""
	if dataPath == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		dbPath = filepath.Join(dataPath, "journal")
		opts = badger.DefaultOptions(dbPath)
	}
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}

	j := &BadgerJournal{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
		encoder: enc,
		decoder: dec,
	}
	if j.seq, err = j.lastSeq(); err != nil {
		j.Close()
		return nil, err
	}
	return j, nil
}

func journalKey(seq uint64) []byte {
	key := make([]byte, len(journalPrefix)+8)
	copy(key, journalPrefix)
	binary.BigEndian.PutUint64(key[len(journalPrefix):], seq)
	return key
}

// lastSeq находит номер последней записи после перезапуска
func (j *BadgerJournal) lastSeq() (uint64, error) {
	var seq uint64
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		it.Seek(journalKey(^uint64(0)))
		if it.ValidForPrefix(journalPrefix) {
			key := it.Item().Key()
			seq = binary.BigEndian.Uint64(key[len(journalPrefix):])
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("ошибка чтения журнала: %w", err)
	}
	return seq, nil
}

func (j *BadgerJournal) Append(ctx context.Context, e Entry) (uint64, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	j.mutex.Lock()
	defer j.mutex.Unlock()
	if !j.isReady {
		return 0, ErrClosed
	}

	e.Seq = j.seq + 1
	data, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("ошибка сериализации записи: %w", err)
	}
	value := j.encoder.EncodeAll(data, nil)

	err = j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(journalKey(e.Seq), value)
	})
	if err != nil {
		return 0, fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}
	j.seq = e.Seq
	return e.Seq, nil
}

func (j *BadgerJournal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	j.mutex.RLock()
	defer j.mutex.RUnlock()
	if !j.isReady {
		return nil, ErrClosed
	}

	var out []Entry
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(journalKey(^uint64(0))); it.ValidForPrefix(journalPrefix); it.Next() {
			if limit > 0 && len(out) >= limit {
				break
			}
			raw, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			data, err := j.decoder.DecodeAll(raw, nil)
			if err != nil {
				return fmt.Errorf("zstd: %w", err)
			}
			var e Entry
			if err := json.Unmarshal(data, &e); err != nil {
				return fmt.Errorf("ошибка десериализации записи: %w", err)
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Итерация шла с конца
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out, nil
}

func (j *BadgerJournal) Count(ctx context.Context) (int, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	j.mutex.RLock()
	defer j.mutex.RUnlock()
	if !j.isReady {
		return 0, ErrClosed
	}

	n := 0
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(journalPrefix); it.ValidForPrefix(journalPrefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// Close закрывает хранилище
func (j *BadgerJournal) Close() error {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	if !j.isReady {
		return nil
	}
	j.isReady = false
	j.encoder.Close()
	j.decoder.Close()
	return j.db.Close()
}
