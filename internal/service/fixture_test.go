package service

import (
	"sync"
	"testing"
	"time"

	"feedmill-production/internal/model"
	"feedmill-production/internal/seed"
	"feedmill-production/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var productionMorning = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu     sync.Mutex
	events []BatchEvent
}

func (n *recordingNotifier) Publish(e BatchEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNotifier) types() []BatchEventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]BatchEventType, len(n.events))
	for i, e := range n.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	db       *gorm.DB
	engine   *Engine
	demo     *seed.Demo
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	notifier := &recordingNotifier{}
	engine := NewEngine(db, Settings{
		LocationID:    "HUB",
		BatchPrefix:   "PB",
		SerialPrefix:  "FM",
		ShelfLifeDays: 90,
		Location:      time.UTC,
		Now:           func() time.Time { return productionMorning },
	}, notifier, zap.NewNop())

	demo, err := seed.LayerMash(db, engine.Ledger, seed.DefaultStock(), "test")
	require.NoError(t, err)

	return &fixture{db: db, engine: engine, demo: demo, notifier: notifier}
}

func (f *fixture) stock(t *testing.T, ref model.MaterialRef) decimal.Decimal {
	t.Helper()
	qty, err := f.engine.Ledger.CurrentStock(f.db, ref)
	require.NoError(t, err)
	return qty
}

func (f *fixture) createRequest(size int) *CreateBatchRequest {
	return &CreateBatchRequest{
		FormulaID:           f.demo.Formula.ID,
		BatchSize:           size,
		ProductionOfficerID: uuid.New(),
		SupervisorID:        uuid.New(),
	}
}

func (f *fixture) packages(count int) []PackageDeclaration {
	return []PackageDeclaration{{
		ProductID:           f.demo.Product.ID,
		PackageSize:         model.PackageSize{Weight: decimal.NewFromInt(25), Unit: model.WeightKG},
		UnitCount:           count,
		PackagingMaterialID: f.demo.Bag.ID,
	}}
}

func maizeRef(f *fixture) model.MaterialRef { return model.RawMaterialRef(f.demo.Maize.ID) }
func soyaRef(f *fixture) model.MaterialRef  { return model.RawMaterialRef(f.demo.Soya.ID) }
func bagRef(f *fixture) model.MaterialRef   { return model.PackagingMaterialRef(f.demo.Bag.ID) }
