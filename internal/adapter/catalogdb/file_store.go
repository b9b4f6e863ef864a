package catalogdb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/example/astro-shop-service/internal/domain"
	"github.com/shopspring/decimal"
)

// Цены в документе — числа, не строки: "price": 7.99.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// document — персистентный документ каталога целиком: купоны, склад кодов
// и список товаров. Переписывается полностью при каждой мутации склада.
type document struct {
	Coupons  map[string]int      `json:"coupons"`
	Stock    map[string][]string `json:"stock"`
	Products []domain.Product    `json:"products"`
}

// FileStore — хранилище каталога в одном JSON-файле. Все операции под
// мьютексом: снятие кода — атомарный pop-or-fail по ключу склада.
type FileStore struct {
	path string

	mu  sync.Mutex
	doc document
}

// Open загружает документ каталога; отсутствующий файл засевается
// дефолтами.
func Open(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.doc = seedDocument()
		if err := s.writeLocked(); err != nil {
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if err := json.Unmarshal(raw, &s.doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if s.doc.Coupons == nil {
		s.doc.Coupons = map[string]int{}
	}
	if s.doc.Stock == nil {
		s.doc.Stock = map[string][]string{}
	}
	return s, nil
}

func seedDocument() document {
	return document{
		Coupons: map[string]int{"ASTRO10": 10},
		Stock: map[string][]string{
			"GIFT-10": {"CODIGO-AAAA-1111", "CODIGO-BBBB-2222"},
		},
		Products: []domain.Product{
			{ID: "ff110", Name: "🔥 110 Diamantes (FF)", Price: decimal.RequireFromString("7.99"), Kind: domain.FulfillManual},
			{ID: "ff341", Name: "🔥 341 Diamantes (FF)", Price: decimal.RequireFromString("19.99"), Kind: domain.FulfillManual},
			{ID: "rbx400", Name: "🟩 400 Robux", Price: decimal.RequireFromString("24.9"), Kind: domain.FulfillManual},
			{ID: "gift10", Name: "🎁 Gift Card 10 (CÓDIGO)", Price: decimal.RequireFromString("10.0"), Kind: domain.FulfillCode, StockKey: "GIFT-10"},
		},
	}
}

func (s *FileStore) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, len(s.doc.Products))
	copy(out, s.doc.Products)
	return out
}

func (s *FileStore) Product(id string) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.doc.Products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (s *FileStore) CouponPercent(code string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pct, ok := s.doc.Coupons[code]
	return pct, ok
}

// PopCode снимает первый код со склада (FIFO). Проверка и снятие — одна
// критическая секция, гонка «оба увидели последний код» исключена.
func (s *FileStore) PopCode(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	codes := s.doc.Stock[key]
	if len(codes) == 0 {
		return "", false
	}
	code := codes[0]
	s.doc.Stock[key] = codes[1:]
	return code, true
}

// StockCodes — текущие коды по ключу склада (копия).
func (s *FileStore) StockCodes(key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.doc.Stock[key]))
	copy(out, s.doc.Stock[key])
	return out
}

// Persist переписывает документ атомарно: во временный файл, затем rename,
// чтобы краш не оставил усечённый каталог.
func (s *FileStore) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked()
}

func (s *FileStore) writeLocked() error {
	raw, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("temp catalog: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close catalog: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename catalog: %w", err)
	}
	return nil
}

var _ domain.CatalogStore = (*FileStore)(nil)
