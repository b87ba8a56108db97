package ordertable

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/evermart/ordertables/internal/events"
	"github.com/evermart/ordertables/internal/mapper"
	"github.com/evermart/ordertables/internal/repository"
	"github.com/evermart/ordertables/internal/repository/entities"
)

// testEnv bundles the storage stack for one record type over an in-memory
// database, with a collecting event consumer on the bus.
type testEnv struct {
	store  *repository.Store
	meta   repository.MetaRepository
	tables repository.TableRepository
	writer *Writer
	bus    *events.Bus
	sink   *eventSink
}

type eventSink struct {
	mu     sync.Mutex
	events []events.RecordEvent
	seen   chan struct{}
}

func (s *eventSink) Name() string { return "sink" }

func (s *eventSink) ProcessEvent(event events.RecordEvent) error {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
	s.seen <- struct{}{}
	return nil
}

// next waits for one event to arrive and returns it.
func (s *eventSink) next(t *testing.T) events.RecordEvent {
	t.Helper()
	select {
	case <-s.seen:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[len(s.events)-1]
}

// assertQuiet verifies no notification arrives within the grace window.
func (s *eventSink) assertQuiet(t *testing.T) {
	t.Helper()
	select {
	case <-s.seen:
		t.Fatal("unexpected change notification")
	case <-time.After(100 * time.Millisecond):
	}
}

func newTestEnv(t *testing.T, schema *mapper.Schema) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	store := &repository.Store{DB: db}
	require.NoError(t, store.EnsureSchema())

	bus := events.NewBus(&events.Config{BufferSize: 16, Workers: 1})
	sink := &eventSink{seen: make(chan struct{}, 16)}
	require.NoError(t, bus.RegisterConsumer(sink))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = bus.Shutdown(ctx)
	})

	meta := repository.NewMetaRepository(db)
	tables := repository.NewTableRepository(db)
	return &testEnv{
		store:  store,
		meta:   meta,
		tables: tables,
		writer: NewWriter(schema, meta, tables, bus, nil),
		bus:    bus,
		sink:   sink,
	}
}

func (e *testEnv) resolver(t *testing.T, schema *mapper.Schema, autoBackfill bool) *Resolver {
	t.Helper()
	return NewResolver(schema, e.meta, e.tables, e.writer, autoBackfill, nil)
}

// seedLegacy inserts a legacy primary row plus its attributes.
func (e *testEnv) seedLegacy(t *testing.T, id uint64, recordType string, attrs map[string]string) {
	t.Helper()
	require.NoError(t, e.store.DB.Create(&entities.LegacyOrder{
		ID:         id,
		RecordType: recordType,
		CreatedAt:  time.Now(),
	}).Error)
	for key, value := range attrs {
		require.NoError(t, e.store.DB.Create(&entities.OrderMeta{
			OrderID:   id,
			MetaKey:   key,
			MetaValue: value,
		}).Error)
	}
}

func legacyOrderAttrs() map[string]string {
	return map[string]string{
		mapper.MetaOrderTotal:       "19.99",
		mapper.MetaOrderCurrency:    "USD",
		mapper.MetaPricesIncludeTax: "yes",
		mapper.MetaCartDiscount:     "0",
		mapper.MetaCartDiscountTax:  "0",
		mapper.MetaOrderShipping:    "4.00",
		mapper.MetaOrderShippingTax: "0.40",
		mapper.MetaOrderTax:         "1.10",
		mapper.MetaOrderVersion:     "8.1.0",
	}
}
