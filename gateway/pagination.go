// Copyright 2024 by the Authors
// This file is part of the go-core library.
//
// The go-core library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-core library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR ANY PURPOSE. See the GNU Lesser General Public
// License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-core library. If not, see <http://www.gnu.org/licenses/>.

package gateway

import "context"

// GetInteractions implements the paginated interaction fetch: repeated pages of up
// to maxRequest edges, sorted HEIGHT_ASC, until an empty page is reached.
// resumeAfter, when non-nil, starts the fetch from that cursor instead of
// the beginning; the replay engine always passes nil.
func (c *Client) GetInteractions(ctx context.Context, contractID string, maxHeight int64, resumeAfter *string) ([]Edge, error) {
	var all []Edge
	cursor := resumeAfter

	for {
		edges, _, err := c.queryPage(ctx, contractID, maxHeight, maxRequest, cursor)
		if err != nil {
			return nil, err
		}
		if len(edges) == 0 {
			break
		}
		all = append(all, edges...)

		idx := len(edges) - 1
		if len(edges) > maxRequest {
			idx = maxRequest - 1
		}
		next := edges[idx].Cursor
		cursor = &next
	}

	return all, nil
}

// HasMore is the "has_more" probe: a 1-edge request starting after
// cursor, used to check whether a cached interaction list can be extended
// without refetching everything.
func (c *Client) HasMore(ctx context.Context, contractID string, maxHeight int64, cursor string) (bool, error) {
	edges, _, err := c.queryPage(ctx, contractID, maxHeight, 1, &cursor)
	if err != nil {
		return false, err
	}
	return len(edges) > 0, nil
}
