package events

import (
	"testing"
	"time"
)

func TestBusNotifiesSubscribedTable(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(TableInvoices)
	defer cancel()

	bus.Notify(OpInsert, TableInvoices)

	select {
	case change := <-ch:
		if change.Table != TableInvoices {
			t.Fatalf("table = %s, want %s", change.Table, TableInvoices)
		}
		if change.Op != OpInsert {
			t.Fatalf("op = %s, want %s", change.Op, OpInsert)
		}
	case <-time.After(time.Second):
		t.Fatal("no change delivered")
	}
}

func TestBusIgnoresOtherTables(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(TablePayments)
	defer cancel()

	bus.Notify(OpInsert, TableInvoices)

	select {
	case change := <-ch:
		t.Fatalf("unexpected change: %+v", change)
	default:
	}
}

func TestBusNotifyNeverBlocks(t *testing.T) {
	bus := NewBus()
	_, cancel := bus.Subscribe(TableProducts)
	defer cancel()

	// Flood well past the channel buffer; sends must all return.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			bus.Notify(OpUpdate, TableProducts)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notify blocked on a full subscriber")
	}
}

func TestBusCancelStopsDelivery(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(TableInvoices)
	cancel()

	bus.Notify(OpInsert, TableInvoices)

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel after cancel")
	}
}
