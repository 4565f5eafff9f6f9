// Package blocks flattens Delivery API block lists into an ordered sequence of
// typed blocks for dynamic page composition.
package blocks

import (
	"encoding/json"

	"conference-site/pkg/models"
)

// UnknownBlock is the alias reported for blocks without a content type
const UnknownBlock = "unknownBlock"

// InOrder converts a decoded block list value
//
//	{ "items": [ { "content": { "contentType", "id", "properties" }, "settings": ... } ] }
//
// into blocks in the order the API returned them. Settings are dropped.
// Missing or malformed input yields an empty slice; items without a content
// object are skipped.
func InOrder(raw any) []models.Block {
	list, ok := raw.(map[string]any)
	if !ok {
		return []models.Block{}
	}
	items, ok := list["items"].([]any)
	if !ok {
		return []models.Block{}
	}

	out := make([]models.Block, 0, len(items))
	for _, entry := range items {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		content, ok := item["content"].(map[string]any)
		if !ok {
			continue
		}

		contentType, _ := content["contentType"].(string)
		id, _ := content["id"].(string)
		props, ok := content["properties"].(map[string]any)
		if !ok {
			props = map[string]any{}
		}

		out = append(out, models.Block{
			ContentType: contentType,
			ID:          id,
			Properties:  props,
		})
	}
	return out
}

// Decode parses a JSON block list and returns its blocks in order. Invalid
// JSON yields an empty slice.
func Decode(data []byte) []models.Block {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return []models.Block{}
	}
	return InOrder(raw)
}

// TypeAlias returns the block's content type, or UnknownBlock when it has none
func TypeAlias(b models.Block) string {
	if b.ContentType == "" {
		return UnknownBlock
	}
	return b.ContentType
}
