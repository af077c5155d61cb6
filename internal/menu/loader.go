// Package menu loads the text menu format used by restaurant staff into the
// product catalog. Each non-blank line describes one product:
//
//	name;price;category
//
// Lines starting with '#' are comments.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tableside/restaurant-orders/internal/domain/product"
)

// ParseError reports a malformed menu line.
type ParseError struct {
	Line int
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("menu line %d: malformed entry %q", e.Line, e.Text)
}

// Parse reads menu entries from r and returns them as products with freshly
// generated identifiers.
func Parse(r io.Reader) ([]product.Product, error) {
	var products []product.Product

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		parts := strings.Split(text, ";")
		if len(parts) != 3 {
			return nil, &ParseError{Line: line, Text: text}
		}

		price, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, &ParseError{Line: line, Text: text}
		}

		p := product.Product{
			ID:       uuid.New().String(),
			Name:     strings.TrimSpace(parts[0]),
			Price:    price,
			Category: strings.TrimSpace(parts[2]),
		}
		if err := p.Validate(); err != nil {
			return nil, &ParseError{Line: line, Text: text}
		}
		products = append(products, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read menu")
	}

	return products, nil
}

// LoadFile parses the menu file at path and stores every product in the
// catalog. It returns the number of products loaded.
func LoadFile(ctx context.Context, path string, catalog product.Repository) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(err, "open menu file")
	}
	defer f.Close()

	products, err := Parse(f)
	if err != nil {
		return 0, err
	}

	for _, p := range products {
		if err := catalog.Create(ctx, p); err != nil {
			return 0, errors.Wrapf(err, "store product %q", p.Name)
		}
	}
	return len(products), nil
}
