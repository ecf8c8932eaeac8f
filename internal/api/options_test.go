package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JanMyst/Chub-Search-Fixedv2/internal/settings"
)

func newTestStore(t *testing.T) *settings.Store {
	t.Helper()
	st, err := settings.Open(t.TempDir())
	require.NoError(t, err)
	return st
}

func boolPtr(v bool) *bool { return &v }

func TestNormalizeOptions_BooleanResolutionOrder(t *testing.T) {
	tests := []struct {
		name      string
		explicit  *bool
		persisted *bool
		want      bool
	}{
		{"built-in default", nil, nil, false},
		{"persisted overrides default", nil, boolPtr(true), true},
		{"explicit true overrides persisted false", boolPtr(true), boolPtr(false), true},
		{"explicit false overrides persisted true", boolPtr(false), boolPtr(true), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestStore(t)
			if tt.persisted != nil {
				st.Set("nsfw", *tt.persisted)
			}

			opts := NormalizeOptions(RawOptions{NSFW: tt.explicit}, st)
			assert.Equal(t, tt.want, opts.NSFW)
		})
	}
}

func TestNormalizeOptions_AllFlagsReadPersistedValue(t *testing.T) {
	st := newTestStore(t)
	for _, bo := range boolOptions {
		st.Set(bo.SettingsKey, true)
	}

	opts := NormalizeOptions(RawOptions{}, st)
	for _, bo := range boolOptions {
		assert.True(t, bo.get(opts), "flag %s should read the persisted value", bo.SettingsKey)
	}
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"messy segments", "a, b ,,c", []string{"a", "b", "c"}},
		{"order preserved no dedupe", "elf,fantasy,elf", []string{"elf", "fantasy", "elf"}},
		{"trailing comma", "one,", []string{"one"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTags(tt.input))
		})
	}
}

func TestNormalizeOptions_NumericParsing(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *int
	}{
		{"empty is absent", "", nil},
		{"garbage is absent", "abc", nil},
		{"negative is absent", "-5", nil},
		{"valid integer", "42", intPtr(42)},
		{"zero is kept", "0", intPtr(0)},
		{"whitespace trimmed", " 7 ", intPtr(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestStore(t)
			opts := NormalizeOptions(RawOptions{MinTokens: tt.input}, st)
			if tt.want == nil {
				assert.Nil(t, opts.MinTokens)
			} else {
				require.NotNil(t, opts.MinTokens)
				assert.Equal(t, *tt.want, *opts.MinTokens)
			}
		})
	}
}

func intPtr(v int) *int { return &v }

func TestNormalizeOptions_SortAndPagination(t *testing.T) {
	st := newTestStore(t)

	t.Run("defaults", func(t *testing.T) {
		opts := NormalizeOptions(RawOptions{}, st)
		assert.Equal(t, "download_count", opts.SortField)
		assert.False(t, opts.SortAscending)
		assert.Equal(t, 30, opts.PageSize)
		assert.Equal(t, 1, opts.PageNumber)
	})

	t.Run("unknown sort falls back", func(t *testing.T) {
		opts := NormalizeOptions(RawOptions{SortField: "bogus"}, st)
		assert.Equal(t, "download_count", opts.SortField)
	})

	t.Run("known sort kept", func(t *testing.T) {
		opts := NormalizeOptions(RawOptions{SortField: "rating"}, st)
		assert.Equal(t, "rating", opts.SortField)
	})

	t.Run("page clamped to one", func(t *testing.T) {
		opts := NormalizeOptions(RawOptions{PageNumber: -3}, st)
		assert.Equal(t, 1, opts.PageNumber)
	})

	t.Run("persisted find_count wins over default", func(t *testing.T) {
		st := newTestStore(t)
		st.Set("find_count", 50)
		opts := NormalizeOptions(RawOptions{}, st)
		assert.Equal(t, 50, opts.PageSize)
	})

	t.Run("explicit page size wins over persisted", func(t *testing.T) {
		st := newTestStore(t)
		st.Set("find_count", 50)
		opts := NormalizeOptions(RawOptions{PageSize: 10}, st)
		assert.Equal(t, 10, opts.PageSize)
	})
}

func TestStorePreferences(t *testing.T) {
	st := newTestStore(t)
	opts := NormalizeOptions(RawOptions{
		NSFW:     boolPtr(true),
		PageSize: 15,
	}, st)

	StorePreferences(st, opts)

	assert.True(t, st.Bool("nsfw"))
	assert.False(t, st.Bool("nsfl"))
	assert.Equal(t, 15, st.Int("find_count"))
	assert.Equal(t, "download_count", st.String("sort"))
}
