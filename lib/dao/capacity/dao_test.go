package capacity

import (
	"context"
	"errors"
	"github.com/ValentinKolb/kvsolar/lib/keys"
	"github.com/ValentinKolb/kvsolar/lib/model"
	"github.com/ValentinKolb/kvsolar/lib/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"testing"
	"time"
)

func newTestDAO(t *testing.T) (*daoImpl, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCapacityDAO(client, keys.New("test")).(*daoImpl), mr
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	d, mr := newTestDAO(t)

	err := d.Update(ctx, model.MeterReading{SiteID: 1, Timestamp: time.Now(), WhGenerated: 3, WhUsed: 1.5})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	score, err := mr.ZScore("test:sites:capacity:ranking", "1")
	if err != nil {
		t.Fatalf("site not ranked: %v", err)
	}
	if score != 1.5 {
		t.Errorf("expected score 1.5, got %v", score)
	}
}

func TestGetRank(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestDAO(t)

	for id, score := range map[int64]float64{1: 0.5, 2: 2.0, 3: -1.0} {
		if err := d.SetScore(ctx, id, score); err != nil {
			t.Fatalf("SetScore failed: %v", err)
		}
	}

	for id, want := range map[int64]int64{2: 0, 1: 1, 3: 2} {
		rank, found, err := d.GetRank(ctx, id)
		if err != nil || !found {
			t.Fatalf("GetRank(%d): found=%v err=%v", id, found, err)
		}
		if rank != want {
			t.Errorf("GetRank(%d) = %d, want %d", id, rank, want)
		}
	}

	_, found, err := d.GetRank(ctx, 99)
	if err != nil {
		t.Fatalf("GetRank failed: %v", err)
	}
	if found {
		t.Error("expected unranked site to return found=false")
	}
}

func TestGetReport(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestDAO(t)

	for id := int64(1); id <= 10; id++ {
		if err := d.SetScore(ctx, id, float64(id)/10); err != nil {
			t.Fatalf("SetScore failed: %v", err)
		}
	}

	report, err := d.GetReport(ctx, 3)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}

	wantHighest := []int64{10, 9, 8}
	wantLowest := []int64{1, 2, 3}
	if len(report.HighestCapacity) != 3 || len(report.LowestCapacity) != 3 {
		t.Fatalf("unexpected report size %+v", report)
	}
	for i := range wantHighest {
		if report.HighestCapacity[i].SiteID != wantHighest[i] {
			t.Errorf("highest[%d] = %d, want %d", i, report.HighestCapacity[i].SiteID, wantHighest[i])
		}
		if report.LowestCapacity[i].SiteID != wantLowest[i] {
			t.Errorf("lowest[%d] = %d, want %d", i, report.LowestCapacity[i].SiteID, wantLowest[i])
		}
	}
	if report.HighestCapacity[0].Capacity != 1.0 {
		t.Errorf("expected highest capacity 1.0, got %v", report.HighestCapacity[0].Capacity)
	}

	if _, err := d.GetReport(ctx, 0); !errors.Is(err, store.ErrValidation) {
		t.Errorf("expected validation error for limit 0, got %v", err)
	}
}

func TestGetReportEmpty(t *testing.T) {
	d, _ := newTestDAO(t)

	report, err := d.GetReport(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if len(report.HighestCapacity) != 0 || len(report.LowestCapacity) != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
}
