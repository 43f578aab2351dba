package memory

import (
	"context"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/cricket-stats/internal/platform/docstore"
)

// SeedData maps a collection name to its documents. Every document needs an "id".
type SeedData map[string][]map[string]any

func LoadSeedFile(path string) (SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var data SeedData
	if err := sonic.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return data, nil
}

// Seed writes all documents in one batch.
func Seed(ctx context.Context, store docstore.Store, data SeedData) (int, error) {
	batch := store.Batch()
	for collection, docs := range data {
		for i, doc := range docs {
			id, _ := doc["id"].(string)
			if id == "" {
				return 0, fmt.Errorf("seed %s[%d]: id is required", collection, i)
			}
			body, err := docstore.Encode(doc)
			if err != nil {
				return 0, fmt.Errorf("seed %s/%s: %w", collection, id, err)
			}
			batch.Set(collection, id, body)
		}
	}

	if err := batch.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return batch.Len(), nil
}

// DefaultSeed is a small two-team dataset for local runs.
func DefaultSeed() SeedData {
	return SeedData{
		"teams": {
			{"id": "team-mi", "name": "Mumbai Indians", "shortName": "MI", "matchHistory": []any{
				map[string]any{"matchId": "m-001", "matchDate": "2024-04-01T14:00:00Z", "team1": "MI", "team2": "CSK", "venue": "Wankhede", "status": "completed", "winnerId": "team-mi", "result": "MI won by 6 wickets"},
				map[string]any{"matchId": "m-002", "matchDate": "2024-04-08T14:00:00Z", "team1": "CSK", "team2": "MI", "venue": "Chepauk", "status": "completed", "winnerId": "team-csk", "result": "CSK won by 20 runs"},
			}},
			{"id": "team-csk", "name": "Chennai Super Kings", "shortName": "CSK", "matchHistory": []any{
				map[string]any{"matchId": "m-001", "matchDate": "2024-04-01T14:00:00Z", "team1": "MI", "team2": "CSK", "venue": "Wankhede", "status": "completed", "winnerId": "team-mi", "result": "MI won by 6 wickets"},
				map[string]any{"matchId": "m-002", "matchDate": "2024-04-08T14:00:00Z", "team1": "CSK", "team2": "MI", "venue": "Chepauk", "status": "completed", "winnerId": "team-csk", "result": "CSK won by 20 runs"},
			}},
		},
		"players": {
			{"id": "p-rohit", "name": "Rohit Sharma", "teamId": "team-mi", "matchHistory": []any{
				map[string]any{
					"matchId": "m-001", "matchDate": "2024-04-01T14:00:00Z", "team1": "MI", "team2": "CSK",
					"contributions": []any{
						map[string]any{"type": "batting", "batting": map[string]any{"runs": 64, "balls": 41, "fours": 6, "sixes": 3, "dismissal": "c Dhoni b Jadeja"}},
					},
					"dismissals": []any{
						map[string]any{"batter": "Ruturaj Gaikwad", "status": "c Sharma b Bumrah"},
						map[string]any{"batter": "Shivam Dube", "status": "b Bumrah"},
					},
				},
				map[string]any{
					"matchId": "m-002", "matchDate": "2024-04-08T14:00:00Z", "team1": "CSK", "team2": "MI",
					"contributions": []any{
						map[string]any{"type": "batting", "batting": map[string]any{"runs": 105, "balls": 63, "fours": 11, "sixes": 5, "dismissal": "not out"}},
					},
				},
			}},
			{"id": "p-bumrah", "name": "Jasprit Bumrah", "teamId": "team-mi", "matchHistory": []any{
				map[string]any{
					"matchId": "m-001", "matchDate": "2024-04-01T14:00:00Z", "team1": "MI", "team2": "CSK",
					"contributions": []any{
						map[string]any{"type": "bowling", "bowling": map[string]any{"overs": 4, "maidens": 0, "runs": 21, "wickets": 3}},
					},
				},
				map[string]any{
					"matchId": "m-002", "matchDate": "2024-04-08T14:00:00Z", "team1": "CSK", "team2": "MI",
					"contributions": []any{
						map[string]any{"type": "batting", "batting": map[string]any{"runs": 0, "balls": 2, "dismissal": "b Pathirana"}},
						map[string]any{"type": "bowling", "bowling": map[string]any{"overs": 3.4, "maidens": 0, "runs": 30, "wickets": 1}},
					},
				},
			}},
			{"id": "p-dhoni", "name": "MS Dhoni", "teamId": "team-csk", "matchHistory": []any{
				map[string]any{
					"matchId": "m-001", "matchDate": "2024-04-01T14:00:00Z", "team1": "MI", "team2": "CSK",
					"contributions": []any{
						map[string]any{"type": "batting", "batting": map[string]any{"runs": 20, "balls": 9, "fours": 1, "sixes": 2, "dismissal": "not out"}},
						map[string]any{"type": "fielding", "fielding": map[string]any{"action": "catch", "count": 1}},
					},
				},
			}},
			{"id": "p-jadeja", "name": "Ravindra Jadeja", "teamId": "team-csk", "matchHistory": []any{
				map[string]any{
					"matchId": "m-001", "matchDate": "2024-04-01T14:00:00Z", "team1": "MI", "team2": "CSK",
					"contributions": []any{
						map[string]any{"type": "bowling", "bowling": map[string]any{"overs": 4, "maidens": 0, "runs": 33, "wickets": 1}},
					},
				},
			}},
		},
	}
}
