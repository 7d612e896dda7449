package repository

import (
	"encoding/json"
	"fmt"
)

// encodeFanIDs serializes an owned-fan list for the owned_fan_ids column.
// A nil slice is stored as an empty JSON array so the column is never NULL.
func encodeFanIDs(ids []int64) (string, error) {
	if ids == nil {
		ids = []int64{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encode fan ids: %w", err)
	}
	return string(data), nil
}

// decodeFanIDs parses the owned_fan_ids column back into an ordered list.
// Empty or NULL columns decode to an empty list.
func decodeFanIDs(raw string) ([]int64, error) {
	if raw == "" {
		return []int64{}, nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode fan ids: %w", err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}
