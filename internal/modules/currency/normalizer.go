package currency

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
)

// MonetaryFields lists, per collection, the record paths holding amounts in the base currency.
// "items[].price" addresses price in every element of items; "data.revenue" a nested field.
var MonetaryFields = map[string][]string{
	"sales":     {"amount", "totalPrice", "unitPrice"},
	"orders":    {"totalAmount", "items[].price", "items[].total"},
	"inventory": {"price", "cost"},
	"customers": {"totalSpent"},
	"reports":   {"data.revenue", "data.expenses", "data.profit", "data.inventoryValue"},
}

// Collections is the order in which a base-currency change rewrites collections.
var Collections = []string{"sales", "orders", "inventory", "customers", "reports"}

// PartialBatchFailure reports a conversion where some collections could not be rewritten.
// Collections not listed in Failed may already hold converted values; nothing is rolled back.
type PartialBatchFailure struct {
	From, To  Code
	Failed    []string
	Attempted int
}

func (e *PartialBatchFailure) Error() string {
	return fmt.Sprintf("currency conversion %s->%s failed for %s (%d of %d collections converted)",
		e.From, e.To, strings.Join(e.Failed, ", "), e.Attempted-len(e.Failed), e.Attempted)
}

// Normalizer rewrites stored monetary fields from one currency to another.
type Normalizer struct {
	db          *jsonstore.DB
	log         logrus.FieldLogger
	collections []string
}

// NewNormalizer returns a Normalizer over the default collections.
func NewNormalizer(db *jsonstore.DB, log logrus.FieldLogger) *Normalizer {
	return &Normalizer{db: db, log: log, collections: Collections}
}

// UpdateFileValues converts every known monetary field of one collection and writes the file back.
// It never returns an error: failures are logged and reported as false so callers can aggregate.
// When any amount fails to convert the file is left untouched.
func (n *Normalizer) UpdateFileValues(ctx context.Context, collection string, from, to Code) bool {
	log := n.log.WithFields(logrus.Fields{"collection": collection, "from": from, "to": to})
	paths, ok := MonetaryFields[collection]
	if !ok {
		log.Error("no monetary fields known for collection")
		return false
	}
	if from == to {
		return true
	}

	converted := 0
	err := n.db.File(collection).Update(ctx, func(doc jsonstore.Document) error {
		raw, ok := doc[collection]
		if !ok {
			return nil
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var recs []any
		if err := dec.Decode(&recs); err != nil {
			return fmt.Errorf("decode %s: %w", collection, err)
		}

		conv := func(v float64) (float64, error) {
			converted++
			return Convert(v, from, to)
		}
		for i, rec := range recs {
			for _, p := range paths {
				if err := convertPath(rec, strings.Split(p, "."), conv); err != nil {
					return fmt.Errorf("record %d field %s: %w", i, p, err)
				}
			}
		}

		out, err := json.Marshal(recs)
		if err != nil {
			return err
		}
		doc[collection] = out
		return nil
	})
	if err != nil {
		log.WithError(err).Error("currency conversion failed")
		return false
	}
	log.WithField("amounts", converted).Info("currency conversion applied")
	return true
}

// ConvertAll runs UpdateFileValues over every collection concurrently and waits for all of them.
// It returns a *PartialBatchFailure when any collection failed.
func (n *Normalizer) ConvertAll(ctx context.Context, from, to Code) error {
	if _, err := Rate(from); err != nil {
		return err
	}
	if _, err := Rate(to); err != nil {
		return err
	}

	ok := make([]bool, len(n.collections))
	var g errgroup.Group
	for i, name := range n.collections {
		g.Go(func() error {
			ok[i] = n.UpdateFileValues(ctx, name, from, to)
			return nil
		})
	}
	_ = g.Wait()

	var failed []string
	for i, name := range n.collections {
		if !ok[i] {
			failed = append(failed, name)
		}
	}
	if len(failed) > 0 {
		return &PartialBatchFailure{From: from, To: to, Failed: failed, Attempted: len(n.collections)}
	}
	return nil
}

// convertPath applies fn to the numeric value at path inside node.
// Absent or non-numeric values are skipped.
func convertPath(node any, path []string, fn func(float64) (float64, error)) error {
	obj, ok := node.(map[string]any)
	if !ok || len(path) == 0 {
		return nil
	}
	seg := path[0]

	if name, isArray := strings.CutSuffix(seg, "[]"); isArray {
		items, ok := obj[name].([]any)
		if !ok {
			return nil
		}
		for _, item := range items {
			if err := convertPath(item, path[1:], fn); err != nil {
				return err
			}
		}
		return nil
	}

	if len(path) > 1 {
		return convertPath(obj[seg], path[1:], fn)
	}

	v, ok := number(obj[seg])
	if !ok {
		return nil
	}
	res, err := fn(v)
	if err != nil {
		return err
	}
	obj[seg] = json.Number(strconv.FormatFloat(res, 'f', -1, 64))
	return nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	default:
		return 0, false
	}
}
