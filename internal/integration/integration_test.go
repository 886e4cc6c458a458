package integration

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/jscartlabs/cart-service/internal/cart"
	"github.com/jscartlabs/cart-service/internal/catalog"
	"github.com/jscartlabs/cart-service/internal/money"
	"github.com/jscartlabs/cart-service/internal/obs"
)

func setupCore(t *testing.T) (*catalog.Catalog, *cart.Controller) {
	t.Helper()
	obs.InitLogger()
	cat, err := catalog.New([]catalog.Record{
		{ID: "1", Name: "Monkey", Price: "4.99", Stock: 5},
		{ID: "2", Name: "Canary", Price: "6.99", Stock: 3},
		{ID: "3", Name: "Gorilla", Price: "12.50", Stock: 2},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	ctrl := cart.NewController(cat, cart.NewStore(cat), 64)
	ctx, cancel := context.WithCancel(context.Background())
	ctrl.Start(ctx)
	t.Cleanup(func() {
		cancel()
		ctrl.Stop()
	})
	return cat, ctrl
}

func TestCore_WorkedScenarios(t *testing.T) {
	_, ctrl := setupCore(t)
	ctx := context.Background()

	sum, err := ctrl.Add(ctx, "1")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if sum.TotalQuantity != 1 || sum.TotalPrice != 499 {
		t.Fatalf("after first add: %+v", sum)
	}
	sum, err = ctrl.Add(ctx, "1")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if sum.TotalQuantity != 2 || sum.TotalPrice != 998 {
		t.Fatalf("after second add: %+v", sum)
	}
	sum, err = ctrl.Add(ctx, "2")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if sum.TotalQuantity != 3 || sum.TotalPrice != 998+699 {
		t.Fatalf("after third add: %+v", sum)
	}
	if _, err := ctrl.Add(ctx, "999"); !errors.Is(err, cart.ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct, got %v", err)
	}
	if got := ctrl.Summary(); got != sum {
		t.Fatalf("totals moved on failed add: %+v vs %+v", got, sum)
	}
	sum, err = ctrl.Clear(ctx)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if sum.TotalQuantity != 0 || sum.TotalPrice != 0 {
		t.Fatalf("after clear: %+v", sum)
	}
}

// Random valid action sequences compared against a naive reference
// model: quantity equals the number of adds, price the running sum.
func TestCore_RandomSequencesMatchReference(t *testing.T) {
	cat, ctrl := setupCore(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(1))
	ids := []string{"1", "2", "3"}

	var wantQty, wantPrice int64
	for i := 0; i < 500; i++ {
		if rng.Intn(20) == 0 {
			sum, err := ctrl.Clear(ctx)
			if err != nil {
				t.Fatalf("clear %d: %v", i, err)
			}
			wantQty, wantPrice = 0, 0
			if sum.TotalQuantity != 0 || sum.TotalPrice != 0 {
				t.Fatalf("clear %d: %+v", i, sum)
			}
			continue
		}
		id := ids[rng.Intn(len(ids))]
		sum, err := ctrl.Add(ctx, id)
		if err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
		p, _ := cat.Get(id)
		wantQty++
		wantPrice += p.Price
		if sum.TotalQuantity != wantQty || sum.TotalPrice != wantPrice {
			t.Fatalf("step %d: got %+v, want qty=%d price=%d", i, sum, wantQty, wantPrice)
		}
	}
}

// Every successful action yields exactly one change with a gapless
// sequence, and each change carries the running totals of that moment.
func TestCore_ChangesAreConsistent(t *testing.T) {
	obs.InitLogger()
	cat, err := catalog.New([]catalog.Record{
		{ID: "1", Name: "Monkey", Price: "4.99", Stock: 5},
		{ID: "2", Name: "Canary", Price: "6.99", Stock: 3},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	ctrl := cart.NewController(cat, cart.NewStore(cat), 64)
	var changes []cart.Change
	ctrl.Subscribe(func(ch cart.Change) { changes = append(changes, ch) })
	ctx, cancel := context.WithCancel(context.Background())
	ctrl.Start(ctx)
	t.Cleanup(func() {
		cancel()
		ctrl.Stop()
	})

	for i, id := range []string{"1", "2", "999", "1"} {
		if _, err := ctrl.Add(context.Background(), id); err != nil && !errors.Is(err, cart.ErrUnknownProduct) {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	if len(changes) != 3 {
		t.Fatalf("expected 3 changes (failed add is silent), got %d", len(changes))
	}
	var wantQty, wantPrice int64
	for i, ch := range changes {
		if ch.Sequence != uint64(i+1) {
			t.Fatalf("sequence gap at %d: %+v", i, ch)
		}
		p, _ := cat.Get(ch.ProductID)
		wantQty++
		wantPrice += p.Price
		if ch.Summary.TotalQuantity != wantQty || ch.Summary.TotalPrice != wantPrice {
			t.Fatalf("change %d inconsistent: %+v, want qty=%d price=%d", i, ch.Summary, wantQty, wantPrice)
		}
	}
}

func TestCore_DisplayRoundTrip(t *testing.T) {
	_, ctrl := setupCore(t)
	ctx := context.Background()
	for _, id := range []string{"1", "1", "2", "3", "3", "3"} {
		if _, err := ctrl.Add(ctx, id); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	sum := ctrl.Summary()
	display := money.Format(sum.TotalPrice)
	back, err := money.ParsePrice(display)
	if err != nil {
		t.Fatalf("reparse %q: %v", display, err)
	}
	if back != sum.TotalPrice {
		t.Fatalf("display round trip drifted: %d -> %q -> %d", sum.TotalPrice, display, back)
	}
}
