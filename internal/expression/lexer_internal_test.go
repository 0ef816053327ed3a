package expression

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/prattcalc/internal/types"
)

func TestLexerInternalBoundsFault(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name string
		run  func() error
	}{
		{
			name: "consume beyond end",
			run: func() error {
				l := newLexer("1")
				l.index = 1
				_, err := l.consume()
				return err
			},
		},
		{
			name: "number of length 0",
			run: func() error {
				_, err := newLexer("+").lexNumber()
				return err
			},
		},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.run()
			if err == nil {
				t.Fatal("should be error")
			}
			t.Logf("expected error: %v", err)

			if !errors.Is(err, types.ErrInternalBoundsFault) {
				t.Errorf("expect to InternalBoundsFault but got %v", err)
			}
			expected := []types.ErrorTag{types.LexErrorTag, types.InternalBoundsFaultTag}
			if diff := cmp.Diff(expected, types.Tags(err)); diff != "" {
				t.Errorf("tags mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
