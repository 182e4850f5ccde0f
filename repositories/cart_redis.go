package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"booknest/models"

	"github.com/redis/go-redis/v9"
)

// RedisCartStore keeps each user's cart in a Redis hash keyed by book id,
// with the snapshotted line item stored as JSON. Lua scripts keep the
// merge-on-add atomic, so two requests adding the same book cannot lose an
// increment.
type RedisCartStore struct {
	client *redis.Client
}

func NewRedisCartStore(client *redis.Client) *RedisCartStore {
	return &RedisCartStore{client: client}
}

func cartKey(userID int) string {
	return fmt.Sprintf("cart:%d:items", userID)
}

var addItemScript = redis.NewScript(`
local key = KEYS[1]
local field = ARGV[1]
local item = ARGV[2]
local current = redis.call('HGET', key, field)
if current then
	local existing = cjson.decode(current)
	local incoming = cjson.decode(item)
	existing.quantity = existing.quantity + incoming.quantity
	redis.call('HSET', key, field, cjson.encode(existing))
else
	redis.call('HSET', key, field, item)
end
return 1
`)

func (s *RedisCartStore) Get(ctx context.Context, userID int) ([]models.CartItem, error) {
	fields, err := s.client.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}

	items := make([]models.CartItem, 0, len(fields))
	for _, raw := range fields {
		var item models.CartItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("invalid cart item payload: %w", err)
		}
		if item.Quantity > 0 {
			items = append(items, item)
		}
	}

	// HGetAll ordering is unspecified; keep listings stable.
	sort.Slice(items, func(i, j int) bool { return items[i].BookID < items[j].BookID })
	return items, nil
}

func (s *RedisCartStore) Add(ctx context.Context, userID int, item models.CartItem) error {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}

	field := strconv.Itoa(item.BookID)
	if err := addItemScript.Run(ctx, s.client, []string{cartKey(userID)}, field, string(payload)).Err(); err != nil {
		return fmt.Errorf("failed to add item to cart: %w", err)
	}
	return nil
}

func (s *RedisCartStore) Remove(ctx context.Context, userID, bookID int) error {
	if err := s.client.HDel(ctx, cartKey(userID), strconv.Itoa(bookID)).Err(); err != nil {
		return fmt.Errorf("failed to remove item from cart: %w", err)
	}
	return nil
}

func (s *RedisCartStore) Clear(ctx context.Context, userID int) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
