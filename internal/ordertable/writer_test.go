package ordertable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evermart/ordertables/internal/errors"
	"github.com/evermart/ordertables/internal/mapper"
	"github.com/evermart/ordertables/internal/order"
	"github.com/evermart/ordertables/internal/repository"
)

func TestSaveInsertsFullRow(t *testing.T) {
	schema := mapper.Orders()
	env := newTestEnv(t, schema)

	rec := schema.New(55)
	require.NoError(t, schema.FromAttributes(rec, legacyOrderAttrs()))

	require.NoError(t, env.writer.Save(context.Background(), rec))

	row, err := env.tables.GetRow(context.Background(), schema.Table(), 55)
	require.NoError(t, err)
	assert.Equal(t, "19.99", row[order.ColTotal])
	assert.Equal(t, "USD", row[order.ColCurrency])
	assert.Equal(t, "yes", row[order.ColPricesIncludeTax])

	event := env.sink.next(t)
	assert.Equal(t, string(order.TypeOrder), event.GetRecordType())
	assert.Equal(t, uint64(55), event.GetRecordID())
	assert.Len(t, event.GetChanged(), len(schema.Columns()), "insert notifies the full column set")

	got, ok := event.GetRecord().(*order.Order)
	require.True(t, ok, "event carries the written record")
	assert.Equal(t, "19.99", got.Total())
	assert.Equal(t, "USD", got.Currency())
}

func TestSaveAgainWithoutChangesIsNoOp(t *testing.T) {
	schema := mapper.Orders()
	env := newTestEnv(t, schema)

	rec := schema.New(55)
	require.NoError(t, schema.FromAttributes(rec, legacyOrderAttrs()))
	require.NoError(t, env.writer.Save(context.Background(), rec))
	env.sink.next(t)

	require.NoError(t, env.writer.Save(context.Background(), rec))
	env.sink.assertQuiet(t)

	count, err := env.tables.Count(context.Background(), schema.Table())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

// staleExistence delegates to a real repository but reports the row as
// absent, reproducing a concurrent writer landing between the existence
// check and the insert.
type staleExistence struct {
	repository.TableRepository
}

func (s *staleExistence) Exists(ctx context.Context, table string, id uint64) (bool, error) {
	return false, nil
}

func TestSaveAbsorbsLostInsertRace(t *testing.T) {
	schema := mapper.Orders()
	env := newTestEnv(t, schema)

	winnerAttrs := legacyOrderAttrs()
	winnerAttrs[mapper.MetaOrderTotal] = "42.00"
	winner := schema.New(55)
	require.NoError(t, schema.FromAttributes(winner, winnerAttrs))
	cols, err := schema.ToColumns(winner)
	require.NoError(t, err)
	written, err := env.tables.Insert(context.Background(), schema.Table(), 55, cols)
	require.NoError(t, err)
	require.True(t, written)

	rec := schema.New(55)
	require.NoError(t, schema.FromAttributes(rec, legacyOrderAttrs()))

	racing := NewWriter(schema, env.meta, &staleExistence{env.tables}, env.bus, nil)
	require.NoError(t, racing.Save(context.Background(), rec), "lost insert race is a silent no-op")
	env.sink.assertQuiet(t)

	count, err := env.tables.Count(context.Background(), schema.Table())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "exactly one row for the record")

	row, err := env.tables.GetRow(context.Background(), schema.Table(), 55)
	require.NoError(t, err)
	assert.Equal(t, "42.00", row[order.ColTotal], "the winning writer's row survives untouched")
	assert.NotEmpty(t, rec.Changed(), "the losing record stays dirty for a later pass")
}

func TestSavePartialUpdateTouchesOnlyChangedColumns(t *testing.T) {
	schema := mapper.Orders()
	env := newTestEnv(t, schema)

	rec := schema.New(55)
	require.NoError(t, schema.FromAttributes(rec, legacyOrderAttrs()))
	require.NoError(t, env.writer.Save(context.Background(), rec))
	env.sink.next(t)

	ord, ok := rec.(*order.Order)
	require.True(t, ok)
	ord.SetTotal("25.00")
	require.NoError(t, env.writer.Save(context.Background(), rec))

	event := env.sink.next(t)
	assert.Equal(t, map[string]string{order.ColTotal: "25.00"}, event.GetChanged())
	assert.Equal(t, "25.00", event.GetRecord().(*order.Order).Total(),
		"event record reflects the full updated state")

	row, err := env.tables.GetRow(context.Background(), schema.Table(), 55)
	require.NoError(t, err)
	assert.Equal(t, "25.00", row[order.ColTotal])
	assert.Equal(t, "USD", row[order.ColCurrency], "untouched columns keep their values")
}

func TestReverseMigrateRoundTrip(t *testing.T) {
	schema := mapper.Orders()
	env := newTestEnv(t, schema)

	rec := schema.New(55)
	require.NoError(t, schema.FromAttributes(rec, legacyOrderAttrs()))
	require.NoError(t, env.writer.Save(context.Background(), rec))

	require.NoError(t, env.writer.ReverseMigrate(context.Background(), 55, false))

	attrs, err := env.meta.GetAttributes(context.Background(), 55)
	require.NoError(t, err)
	for key, want := range legacyOrderAttrs() {
		assert.Equal(t, want, attrs[key], "attribute %s", key)
	}

	// The normalized row survives a reverse pass.
	_, err = env.tables.GetRow(context.Background(), schema.Table(), 55)
	require.NoError(t, err)
}

func TestReverseMigrateDeletesMappedMetaOnly(t *testing.T) {
	schema := mapper.Orders()
	env := newTestEnv(t, schema)

	attrs := legacyOrderAttrs()
	attrs["_billing_email"] = "a@example.com"
	env.seedLegacy(t, 55, string(order.TypeOrder), attrs)

	rec := schema.New(55)
	require.NoError(t, schema.FromAttributes(rec, attrs))
	require.NoError(t, env.writer.Save(context.Background(), rec))

	require.NoError(t, env.writer.ReverseMigrate(context.Background(), 55, true))

	remaining, err := env.meta.GetAttributes(context.Background(), 55)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"_billing_email": "a@example.com"}, remaining,
		"only attributes outside the static mapping survive")
}

func TestReverseMigrateMissingRow(t *testing.T) {
	schema := mapper.Orders()
	env := newTestEnv(t, schema)

	err := env.writer.ReverseMigrate(context.Background(), 404, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrRowNotFound))
}

func TestRefundReverseMigratePreservesNullableActor(t *testing.T) {
	schema := mapper.Refunds()
	env := newTestEnv(t, schema)

	rec := schema.New(90)
	ref, ok := rec.(*order.Refund)
	require.True(t, ok)
	ref.SetAmount("5.00")
	ref.SetReason("damaged item")
	require.NoError(t, env.writer.Save(context.Background(), rec))

	require.NoError(t, env.writer.ReverseMigrate(context.Background(), 90, false))

	attrs, err := env.meta.GetAttributes(context.Background(), 90)
	require.NoError(t, err)
	assert.Equal(t, "5.00", attrs[mapper.MetaRefundAmount])
	assert.Equal(t, "damaged item", attrs[mapper.MetaRefundReason])
	assert.Equal(t, "", attrs[mapper.MetaRefundedBy], "unset actor round-trips as empty")
}
