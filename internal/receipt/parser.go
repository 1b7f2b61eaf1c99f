package receipt

import (
	"fmt"
	"log/slog"
	"sync"
)

// Parser extracts structured data from the raw text lines of one
// retailer's receipt format. Implementations must be stateless: the
// same line sequence always yields the same result, and one Parser may
// be used for many receipts concurrently.
type Parser interface {
	// Retailer returns the registry key, e.g. "sainsburys".
	Retailer() string

	// ExtractHeader locates the order id and delivery slot time.
	ExtractHeader(lines []string) (OrderHeader, error)

	// ExtractItems isolates the item block and returns one ItemRecord
	// per logical (pre-expansion) line item, in listing order.
	ExtractItems(lines []string) ([]ItemRecord, error)
}

// Parse runs the full pipeline for one receipt: header, items, then
// expansion into persistence-ready rows.
func Parse(p Parser, lines []string) (*Receipt, error) {
	header, err := p.ExtractHeader(lines)
	if err != nil {
		return nil, err
	}

	items, err := p.ExtractItems(lines)
	if err != nil {
		return nil, err
	}

	return &Receipt{
		Header: header,
		Items:  items,
		Rows:   Expand(header.OrderID, items),
	}, nil
}

// Expand flattens item records into one row per physical unit. A count
// item of quantity n becomes n contiguous rows, each priced at the line
// total divided n ways, so the rows sum back to the printed total. A
// weight item becomes exactly one row with its price unchanged. Listing
// order is preserved.
func Expand(orderID int64, items []ItemRecord) []ExpandedRow {
	rows := make([]ExpandedRow, 0, len(items))
	for _, item := range items {
		switch item.Kind {
		case UnitWeight:
			w := item.WeightKG
			rows = append(rows, ExpandedRow{
				OrderID:   orderID,
				ItemName:  item.Name,
				WeightKG:  &w,
				UnitPrice: item.Price,
			})
		default:
			unitPrice := item.Price / float64(item.Quantity)
			for i := 0; i < item.Quantity; i++ {
				rows = append(rows, ExpandedRow{
					OrderID:   orderID,
					ItemName:  item.Name,
					UnitPrice: unitPrice,
				})
			}
		}
	}
	return rows
}

// Registry manages the known retailer parsers.
type Registry struct {
	parsers map[string]Parser
	mu      sync.RWMutex
	logger  *slog.Logger
}

// NewRegistry creates an empty parser registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		parsers: make(map[string]Parser),
		logger:  logger,
	}
}

// Register adds a parser to the registry.
func (r *Registry) Register(p Parser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Retailer()
	if _, exists := r.parsers[name]; exists {
		return fmt.Errorf("parser %s already registered", name)
	}

	r.parsers[name] = p
	r.logger.Info("registered receipt parser", slog.String("retailer", name))
	return nil
}

// Get returns a parser by retailer name.
func (r *Registry) Get(name string) (Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.parsers[name]
	if !exists {
		return nil, fmt.Errorf("parser %s not found", name)
	}
	return p, nil
}

// List returns all registered retailer names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	return names
}
