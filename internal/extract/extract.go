// Package extract turns raw document text or tabular cell grids into
// normalized line-item records. Malformed individual lines are skipped;
// only total extraction failure surfaces as an error.
package extract

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/reconcile-cli/internal/model"
)

// DefaultKeyColumn is the identifier column used for table extraction when
// the caller does not name one.
const DefaultKeyColumn = "Item"

// ErrExtractionFailure marks a document that could not be read at all, as
// opposed to one that merely contained no matching lines. Callers wrap the
// upstream cause around it.
var ErrExtractionFailure = eris.New("extract: document could not be read")

// ErrMissingKeyColumn marks a structured input that lacks the identifier
// column required for matching.
var ErrMissingKeyColumn = eris.New("extract: key column not found")

// Translator translates a text value into a target language. Implementations
// live outside this package; extraction only needs the narrow call.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// TranslateField rewrites one text field on every item through the given
// translator. A failed translation keeps the original text; the item set is
// never lost to a translation hiccup. Returns new items, inputs untouched.
func TranslateField(ctx context.Context, items []model.LineItem, tr Translator, field, targetLang string) []model.LineItem {
	if tr == nil || field == "" || targetLang == "" {
		return items
	}

	out := make([]model.LineItem, len(items))
	for i, li := range items {
		cp := model.NewLineItem(li.Key)
		for _, name := range li.FieldOrder {
			v := li.Fields[name]
			if name == field && v.IsText() && v.String() != "" {
				translated, err := tr.Translate(ctx, v.String(), targetLang)
				if err != nil {
					zap.L().Warn("extract: translation failed, keeping original",
						zap.String("key", li.Key),
						zap.String("field", field),
						zap.Error(err),
					)
				} else {
					v = model.Text(translated)
				}
			}
			cp.Set(name, v)
		}
		out[i] = cp
	}
	return out
}
