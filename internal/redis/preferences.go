package redis

import (
	"context"
	"fmt"
	"strconv"
)

const sectionBreaksKey = "preferences:section_breaks"

// LoadSectionBreaks reads every chat's section break setting.
func (c *Cache) LoadSectionBreaks(ctx context.Context) (map[int64]int, error) {
	values, err := c.client.HGetAll(ctx, sectionBreaksKey).Result()
	if err != nil {
		return nil, err
	}

	breaks := make(map[int64]int, len(values))
	for field, value := range values {
		chatID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chat id %q: %w", field, err)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid section breaks for chat %d: %w", chatID, err)
		}
		breaks[chatID] = n
	}
	return breaks, nil
}

// SaveSectionBreaks stores one chat's setting. Preferences do not expire.
func (c *Cache) SaveSectionBreaks(ctx context.Context, chatID int64, breaks int) error {
	return c.client.HSet(ctx, sectionBreaksKey, strconv.FormatInt(chatID, 10), breaks).Err()
}
