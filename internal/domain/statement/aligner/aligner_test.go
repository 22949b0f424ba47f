package aligner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqdang/bankstmt/internal/domain/record"
	"github.com/hqdang/bankstmt/internal/domain/statement/extractor"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amounts(minors ...int64) []extractor.Amount {
	out := make([]extractor.Amount, len(minors))
	for i, m := range minors {
		out[i] = extractor.Amount{Minor: m}
	}
	return out
}

func TestAlign_StatementScenario(t *testing.T) {
	// Two references, amount stream [1,000,000.00, 24,500,000.00,
	// 2,000,000.00, 22,500,000.00]. The first reference's attached text
	// contains "nhan" so it classifies as a credit.
	tokens := extractor.Tokens{
		Dates: []time.Time{day(2022, time.March, 2)},
		References: []extractor.Reference{
			{ID: "FT00000000001", Attached: "NGUYENVANAnhan"},
			{ID: "FT00000000002", Attached: "THANHTOANHOADON"},
		},
		Amounts: amounts(100000000, 2450000000, 200000000, 2250000000),
	}

	recs := New(DefaultConfig(), nil).Align(tokens)
	require.Len(t, recs, 2)

	assert.Equal(t, "FT00000000001", recs[0].Reference)
	assert.Equal(t, int64(100000000), recs[0].CreditMinor)
	assert.Zero(t, recs[0].DebitMinor)
	assert.Equal(t, int64(2450000000), recs[0].BalanceMinor)
	assert.True(t, recs[0].HasBalance)

	assert.Equal(t, "FT00000000002", recs[1].Reference)
	assert.Equal(t, int64(200000000), recs[1].DebitMinor)
	assert.Zero(t, recs[1].CreditMinor)
	assert.Equal(t, int64(2250000000), recs[1].BalanceMinor)
}

func TestOrdinalPairing(t *testing.T) {
	t.Run("consumes two amounts per reference", func(t *testing.T) {
		tokens := extractor.Tokens{
			References: []extractor.Reference{{ID: "FT00000000001"}, {ID: "FT00000000002"}},
			Amounts:    amounts(100, 200, 300, 400),
		}
		pairs := OrdinalPairing{}.Pair(tokens)
		require.Len(t, pairs, 2)
		assert.Equal(t, int64(300), pairs[1].AmountMinor)
		assert.Equal(t, int64(400), pairs[1].BalanceMinor)
	})

	t.Run("reference without two amounts contributes nothing", func(t *testing.T) {
		tokens := extractor.Tokens{
			References: []extractor.Reference{{ID: "FT00000000001"}, {ID: "FT00000000002"}},
			Amounts:    amounts(100, 200, 300),
		}
		pairs := OrdinalPairing{}.Pair(tokens)
		assert.Len(t, pairs, 1)
	})

	t.Run("opening balance offset shifts consumption", func(t *testing.T) {
		tokens := extractor.Tokens{
			References:  []extractor.Reference{{ID: "FT00000000001"}},
			Amounts:     amounts(999, 100, 200),
			AmountStart: 1,
		}
		pairs := OrdinalPairing{}.Pair(tokens)
		require.Len(t, pairs, 1)
		assert.Equal(t, int64(100), pairs[0].AmountMinor)
		assert.Equal(t, int64(200), pairs[0].BalanceMinor)
	})
}

// The date cursor advancing every DateStride references approximates the
// visual grouping of the printed statement. It is a layout heuristic, not a
// guaranteed-correct reconstruction; these cases pin the documented
// behavior.
func TestAlign_DateCursor(t *testing.T) {
	refs := make([]extractor.Reference, 7)
	var amts []int64
	for i := range refs {
		refs[i] = extractor.Reference{ID: "FT0000000000" + string(rune('1'+i)), Attached: "chi"}
		amts = append(amts, int64(100*(i+1)), int64(1000))
	}
	dates := []time.Time{
		day(2022, time.March, 1),
		day(2022, time.March, 2),
		day(2022, time.March, 3),
	}

	t.Run("default stride of three", func(t *testing.T) {
		tokens := extractor.Tokens{Dates: dates, References: refs, Amounts: amounts(amts...)}
		recs := New(DefaultConfig(), nil).Align(tokens)
		require.Len(t, recs, 7)
		for i, wantDay := range []int{1, 1, 1, 2, 2, 2, 3} {
			assert.Equal(t, wantDay, recs[i].Date.Day(), "record %d", i)
		}
	})

	t.Run("cursor is bounded at the stream end", func(t *testing.T) {
		tokens := extractor.Tokens{
			Dates:      dates[:1],
			References: refs,
			Amounts:    amounts(amts...),
		}
		recs := New(DefaultConfig(), nil).Align(tokens)
		require.Len(t, recs, 7)
		for _, rec := range recs {
			assert.Equal(t, 1, rec.Date.Day())
		}
	})

	t.Run("stride is configurable", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DateStride = 2
		tokens := extractor.Tokens{Dates: dates, References: refs, Amounts: amounts(amts...)}
		recs := New(cfg, nil).Align(tokens)
		require.Len(t, recs, 7)
		for i, wantDay := range []int{1, 1, 2, 2, 3, 3, 3} {
			assert.Equal(t, wantDay, recs[i].Date.Day(), "record %d", i)
		}
	})
}

func TestAlign_DropsZeroAmounts(t *testing.T) {
	tokens := extractor.Tokens{
		Dates:      []time.Time{day(2022, time.March, 1)},
		References: []extractor.Reference{{ID: "FT00000000001", Attached: "x"}},
		Amounts:    amounts(0, 500),
	}
	recs := New(DefaultConfig(), nil).Align(tokens)
	assert.Empty(t, recs)
}

func TestClassifier(t *testing.T) {
	c := NewClassifier(DefaultCreditKeywords)

	tests := []struct {
		text string
		want record.Direction
	}{
		{"NGUYENVANAnhan", record.Credit},
		{"tra lai interest thang 3", record.Credit},
		{"THANHTOANHOADON", record.Debit},
		{"", record.Debit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Classify(tt.text), "text %q", tt.text)
	}

	t.Run("keyword set is configurable", func(t *testing.T) {
		custom := NewClassifier([]string{"congty abc"})
		assert.Equal(t, record.Credit, custom.Classify("luong CONGTY ABC thang 5"))
		assert.Equal(t, record.Debit, NewClassifier(nil).Classify("nhan tien"))
	})
}

func TestCleaner(t *testing.T) {
	c := NewCleaner(DefaultSuffixArtifacts, DefaultNamePrefixes)

	t.Run("splits lower to upper transitions", func(t *testing.T) {
		assert.Equal(t, "Thanh Toan", c.Clean("ThanhToan"))
	})

	t.Run("strips suffix artifacts", func(t *testing.T) {
		assert.Equal(t, "abc", c.Clean("abc-._"))
	})

	t.Run("separates known name prefixes", func(t *testing.T) {
		got := c.Clean("NGUYENVANA")
		assert.Equal(t, "NGUYEN VANA", got)
	})

	t.Run("normalizes smeared transfer phrase", func(t *testing.T) {
		assert.Equal(t, "TRAN B chuyen tien", c.Clean("TRANBchuyentien"))
	})
}
