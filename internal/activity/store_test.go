package activity

import (
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/period"
)

var base = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

func fakeActivity(c models.Category, ts time.Time) models.Activity {
	return models.Activity{
		Name:      gofakeit.Word(),
		Category:  c,
		Count:     gofakeit.Number(1, 5000),
		Timestamp: ts,
		Note:      gofakeit.Sentence(4),
	}
}

func TestAddAssignsID(t *testing.T) {
	s := NewStore(nil)
	a := s.Add(fakeActivity(models.CategoryWalking, base))
	require.NotEmpty(t, a.ID)

	b := s.Add(models.Activity{ID: "fixed", Category: models.CategoryYoga, Timestamp: base})
	assert.Equal(t, "fixed", b.ID)
	assert.Equal(t, 2, s.Len())
}

func TestUpdate(t *testing.T) {
	s := NewStore(nil)
	a := s.Add(fakeActivity(models.CategorySquats, base))

	a.Count = 42
	require.True(t, s.Update(a))
	got, ok := s.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, 42, got.Count)

	assert.False(t, s.Update(models.Activity{ID: "missing", Count: 1}))
	assert.Equal(t, 1, s.Len())
}

func TestDeleteAndBatch(t *testing.T) {
	s := NewStore(nil)
	ids := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		ids = append(ids, s.Add(fakeActivity(models.CategoryRunning, base.Add(time.Duration(i)*time.Hour))).ID)
	}

	assert.True(t, s.Delete(ids[0]))
	assert.False(t, s.Delete(ids[0]))
	assert.False(t, s.Delete("unknown"))

	assert.Equal(t, 2, s.DeleteBatch([]string{ids[1], ids[2], "unknown"}))
	assert.Equal(t, 2, s.Len())
}

func TestObserverFiresOnlyOnChange(t *testing.T) {
	s := NewStore(nil)
	var calls int
	var last []models.Activity
	s.SetObserver(func(snap []models.Activity) {
		calls++
		last = snap
	})

	a := s.Add(fakeActivity(models.CategoryWalking, base))
	assert.Equal(t, 1, calls)
	require.Len(t, last, 1)

	s.Update(models.Activity{ID: "nope"})
	s.Delete("nope")
	assert.Equal(t, 1, calls)

	s.Delete(a.ID)
	assert.Equal(t, 2, calls)
	assert.Empty(t, last)
}

func TestLoadSwapsEntriesWithoutObserver(t *testing.T) {
	s := NewStore([]models.Activity{{ID: "old", Timestamp: base}})
	calls := 0
	s.SetObserver(func([]models.Activity) { calls++ })

	in := []models.Activity{{ID: "a", Count: 3, Timestamp: base}, {ID: "b", Count: 4, Timestamp: base}}
	s.Load(in)
	in[0].Count = 99

	assert.Zero(t, calls)
	assert.Equal(t, 2, s.Len())
	_, ok := s.Get("old")
	assert.False(t, ok)
	got, _ := s.Get("a")
	assert.Equal(t, 3, got.Count)

	s.Add(fakeActivity(models.CategorySquats, base))
	assert.Equal(t, 1, calls)
}

func TestQueriesAreSnapshots(t *testing.T) {
	s := NewStore(nil)
	s.Add(models.Activity{ID: "a", Category: models.CategoryWalking, Count: 10, Timestamp: base, DistanceKm: models.Float64(1)})

	snap := s.All()
	*snap[0].DistanceKm = 99
	snap[0].Count = 99
	s.Add(fakeActivity(models.CategoryWalking, base))

	require.Len(t, snap, 1)
	got, _ := s.Get("a")
	assert.Equal(t, 10, got.Count)
	assert.Equal(t, 1.0, got.Distance())
}

func TestForDateRangeCategory(t *testing.T) {
	cal := period.New(models.WeekStartMonday, time.UTC)
	s := NewStore(nil)
	s.Add(models.Activity{ID: "mon", Category: models.CategoryWalking, Timestamp: time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)})
	s.Add(models.Activity{ID: "wed-am", Category: models.CategorySquats, Timestamp: time.Date(2024, 5, 15, 6, 0, 0, 0, time.UTC)})
	s.Add(models.Activity{ID: "wed-pm", Category: models.CategoryWalking, Timestamp: time.Date(2024, 5, 15, 23, 59, 0, 0, time.UTC)})
	s.Add(models.Activity{ID: "sun", Category: models.CategoryWalking, Timestamp: time.Date(2024, 5, 19, 22, 0, 0, 0, time.UTC)})
	s.Add(models.Activity{ID: "next-mon", Category: models.CategoryWalking, Timestamp: time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)})

	ids := func(as []models.Activity) []string {
		out := make([]string, 0, len(as))
		for _, a := range as {
			out = append(out, a.ID)
		}
		return out
	}

	assert.Equal(t, []string{"wed-am", "wed-pm"}, ids(s.ForDate(base, cal)))
	assert.Equal(t, []string{"mon", "wed-am", "wed-pm", "sun"}, ids(s.InRange(cal.Week(base))))

	end := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	assert.Len(t, s.ForRange(time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC), end, false), 4)
	assert.Len(t, s.ForRange(time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC), end, true), 5)

	assert.Equal(t, []string{"wed-am"}, ids(s.ForCategory(models.CategorySquats)))
}

func TestReplaceIsOneMutation(t *testing.T) {
	s := NewStore([]models.Activity{
		{ID: "user", Category: models.CategoryWalking, Count: 100, Timestamp: base},
		{ID: "ext-1", Category: models.CategoryWalking, Count: 5, Timestamp: base, External: true},
		{ID: "ext-2", Category: models.CategoryWalking, Count: 6, Timestamp: base, External: true},
	})
	calls := 0
	s.SetObserver(func([]models.Activity) { calls++ })

	s.Replace(IsExternal, []models.Activity{{Category: models.CategoryWalking, Count: 8000, Timestamp: base, External: true}})

	assert.Equal(t, 1, calls)
	ext := s.External()
	require.Len(t, ext, 1)
	assert.Equal(t, 8000, ext[0].Count)
	_, ok := s.Get("user")
	assert.True(t, ok)
}

func TestSums(t *testing.T) {
	entries := []models.Activity{
		{Count: 10, DistanceKm: models.Float64(1.5)},
		{Count: 5},
		{Count: 7, DistanceKm: models.Float64(0.5)},
	}
	assert.Equal(t, 22, SumCount(entries))
	assert.InDelta(t, 2.0, SumDistance(entries), 1e-9)
	assert.Equal(t, 0, SumCount(nil))
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Add(fakeActivity(models.CategoryWalking, base))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = SumCount(s.ForCategory(models.CategoryWalking))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 400, s.Len())
}
