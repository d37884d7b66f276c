package service

import (
	"context"

	"github.com/smallbiznis/kasira/internal/events"
	"go.uber.org/fx"
)

var watchedTables = []string{
	events.TableInvoices,
	events.TableInvoiceItems,
	events.TablePayments,
	events.TableSupplierPayments,
	events.TableProducts,
	events.TableProductReturns,
}

// RunInvalidation purges the summary cache whenever a watched table changes.
// The notification carries no payload, so the whole cache goes.
func RunInvalidation(lc fx.Lifecycle, svc *Service, bus *events.Bus) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			for _, table := range watchedTables {
				ch, unsubscribe := bus.Subscribe(table)
				go func(ch <-chan events.Change, unsubscribe func()) {
					defer unsubscribe()
					for {
						select {
						case <-ctx.Done():
							return
						case _, ok := <-ch:
							if !ok {
								return
							}
							svc.Invalidate()
						}
					}
				}(ch, unsubscribe)
			}
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
