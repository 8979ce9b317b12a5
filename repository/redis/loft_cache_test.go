package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/loftplanner/domain"
)

type stubLofts struct {
	lofts []domain.Loft
	err   error
	asked [][]string
}

func (s *stubLofts) ListByIDs(_ context.Context, _ string, ids []string) ([]domain.Loft, error) {
	s.asked = append(s.asked, ids)
	return s.lofts, s.err
}

func TestLoftCache_WithoutClientReadsSource(t *testing.T) {
	source := &stubLofts{lofts: []domain.Loft{{ID: "a", Name: "North"}, {ID: "b", Name: "South"}}}
	cache := NewLoftCache(nil, source, 0)

	names, err := cache.LoftNames(context.Background(), "user-1", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "North", "b": "South"}, names)
	assert.Equal(t, [][]string{{"a", "b"}}, source.asked)
}

func TestLoftCache_EmptyIDs(t *testing.T) {
	source := &stubLofts{}
	names, err := NewLoftCache(nil, source, 0).LoftNames(context.Background(), "user-1", nil)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Empty(t, source.asked)
}

func TestLoftCache_SourceError(t *testing.T) {
	source := &stubLofts{err: errors.New("db down")}
	_, err := NewLoftCache(nil, source, 0).LoftNames(context.Background(), "user-1", []string{"a"})
	assert.EqualError(t, err, "db down")
}

func TestLoftCache_Key(t *testing.T) {
	c := NewLoftCache(nil, nil, 0).(*loftCache)
	assert.Equal(t, "loft:user-1:a", c.key("user-1", "a"))
}
