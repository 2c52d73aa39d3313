package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"

	"github.com/Alturino/grocery/internal/coupon"
	"github.com/Alturino/grocery/internal/pricing"
	"github.com/Alturino/grocery/internal/repository"
	"github.com/Alturino/grocery/internal/testutil"
)

const failingProductId = 666

type fakePublisher struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

func (p *fakePublisher) Publish(c context.Context, queue string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.messages == nil {
		p.messages = map[string][][]byte{}
	}
	p.messages[queue] = append(p.messages[queue], body)
	return nil
}

func (p *fakePublisher) published(queue string) [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.messages[queue]
}

type mockPublisher struct {
	mock.Mock
}

func (p *mockPublisher) Publish(c context.Context, queue string, body []byte) error {
	args := p.Called(c, queue, body)
	return args.Error(0)
}

type fixture struct {
	pool      *pgxpool.Pool
	cache     *redis.Client
	queries   *repository.Queries
	publisher *fakePublisher
	service   *OrderService
}

func setup(t *testing.T, c context.Context) fixture {
	t.Helper()

	pool := testutil.StartPostgres(t, c)
	cache := testutil.StartRedis(t, c)
	queries := repository.New(pool)
	publisher := &fakePublisher{}

	injectOrderItemFailure(t, c, pool)

	return fixture{
		pool:      pool,
		cache:     cache,
		queries:   queries,
		publisher: publisher,
		service: NewOrderService(
			pool,
			queries,
			cache,
			publisher,
			coupon.Default,
			pricing.DefaultConfig(),
		),
	}
}

// injectOrderItemFailure makes any order item insert for failingProductId
// raise, so checkout fails after the order row is already written.
func injectOrderItemFailure(t *testing.T, c context.Context, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(c, fmt.Sprintf(`
create or replace function fail_order_item() returns trigger language plpgsql as $$
begin
  if new.product_id = %d then
    raise exception 'injected order item failure';
  end if;
  return new;
end
$$`, failingProductId))
	if err != nil {
		t.Fatalf("failed creating failure function with error: %s", err)
	}

	_, err = pool.Exec(c, `
create trigger fail_order_item
before insert on order_items
for each row execute function fail_order_item()`)
	if err != nil {
		t.Fatalf("failed creating failure trigger with error: %s", err)
	}
}
