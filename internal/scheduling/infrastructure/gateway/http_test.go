package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/application/dto"
	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/felixgeelhaar/workday/internal/scheduling/infrastructure/gateway"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/httpclient"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

func newClient(t *testing.T, mux *http.ServeMux) *httpclient.Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	cfg := httpclient.DefaultConfig(srv.URL)
	cfg.UserID = "00000000-0000-0000-0000-000000000001"
	return httpclient.New(cfg, srv.Client(), nil, nil)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func sampleBlocks(t *testing.T) []domain.Block {
	t.Helper()
	blocks, err := domain.Build(day, "08:00", []domain.TemplateEntry{
		{Type: domain.BlockTypeWork, DurationMinutes: 60, Label: "Plan"},
		{Type: domain.BlockTypeBreak, DurationMinutes: 10, Label: "Break"},
	}, 0)
	require.NoError(t, err)
	return blocks
}

func TestHTTPScheduleGateway_Blocks(t *testing.T) {
	ctx := context.Background()
	blocks := sampleBlocks(t)
	var saved dto.SaveBlocksRequest

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+gateway.PathBlocks, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-03-05", r.URL.Query().Get("date"))
		writeJSON(t, w, dto.BlocksResponse{Date: "2024-03-05", Blocks: dto.FromBlocks(blocks)})
	})
	mux.HandleFunc("PUT "+gateway.PathBlocks, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&saved))
		writeJSON(t, w, dto.SaveBlocksResponse{Success: true, BlocksSaved: len(saved.Blocks)})
	})
	g := gateway.NewHTTPScheduleGateway(newClient(t, mux))

	loaded, err := g.LoadBlocks(ctx, day)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, blocks[0].ID(), loaded[0].ID())
	assert.True(t, loaded[1].EndTime().Equal(blocks[1].EndTime()))

	require.NoError(t, g.SaveBlocks(ctx, day, blocks))
	assert.Equal(t, "2024-03-05", saved.Date)
	assert.Len(t, saved.Blocks, 2)
	assert.Equal(t, "WORK", saved.Blocks[0].BlockType)
}

func TestHTTPScheduleGateway_Template(t *testing.T) {
	ctx := context.Background()
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+gateway.PathConfig, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, dto.ConfigResponse{
			XPConfig:        map[string]int{"clockIn": 10},
			DefaultTemplate: dto.FromTemplate(domain.FallbackTemplate()),
		})
	})
	g := gateway.NewHTTPScheduleGateway(newClient(t, mux))

	tmpl, err := g.FetchTemplate(ctx)

	require.NoError(t, err)
	require.NotNil(t, tmpl)
	assert.Equal(t, "Standard Workday", tmpl.Name())
	assert.Len(t, tmpl.Entries(), 7)
}

func TestHTTPScheduleGateway_CarryOver(t *testing.T) {
	ctx := context.Background()
	blocks := sampleBlocks(t)
	var committed dto.CarryOverRequest

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+gateway.PathIncomplete, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-03-06", r.URL.Query().Get("today"))
		writeJSON(t, w, dto.IncompleteResponse{
			Date:                   "2024-03-05",
			IncompleteBlocks:       dto.FromBlocks(blocks[:1]),
			TotalIncompleteMinutes: 60,
			HasIncomplete:          true,
		})
	})
	mux.HandleFunc("POST "+gateway.PathCarryOver, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&committed))
		writeJSON(t, w, dto.CarryOverResponse{Success: true, BlocksCarried: len(committed.BlockIDs), CarryToDate: committed.CarryToDate})
	})
	g := gateway.NewHTTPScheduleGateway(newClient(t, mux))
	tomorrow := day.AddDate(0, 0, 1)

	incomplete, err := g.FetchIncomplete(ctx, tomorrow)
	require.NoError(t, err)
	require.Len(t, incomplete, 1)

	require.NoError(t, g.CommitCarryOver(ctx, []uuid.UUID{incomplete[0].ID()}, tomorrow))
	assert.Equal(t, "2024-03-06", committed.CarryToDate)
	assert.Equal(t, []string{blocks[0].ID().String()}, committed.BlockIDs)
}

func TestHTTPScheduleGateway_ServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT "+gateway.PathBlocks, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	g := gateway.NewHTTPScheduleGateway(newClient(t, mux))

	err := g.SaveBlocks(context.Background(), day, sampleBlocks(t))

	var statusErr *httpclient.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
}

func TestHTTPXPGateway(t *testing.T) {
	ctx := context.Background()
	var (
		award  dto.AwardXPRequest
		streak dto.StreakRequest
	)
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+gateway.PathProfile, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"total_xp": 340, "level": 3})
	})
	mux.HandleFunc("POST "+gateway.PathAwardXP, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&award))
		writeJSON(t, w, dto.AwardXPResponse{Success: true, TotalXP: 350, Level: 3, XPGained: 10})
	})
	mux.HandleFunc("POST "+gateway.PathStreak, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&streak))
		http.Error(w, `{"error":"profile not found"}`, http.StatusNotFound)
	})
	g := gateway.NewHTTPXPGateway(newClient(t, mux))

	total, err := g.TotalXP(ctx)
	require.NoError(t, err)
	assert.Equal(t, 340, total)

	res, err := g.AwardXP(ctx, 125, "Completed Plan", "BLOCK_COMPLETED")
	require.NoError(t, err)
	assert.Equal(t, 350, res.TotalXP)
	assert.Equal(t, "BLOCK_COMPLETED", award.ActionType)
	assert.Equal(t, 125, award.Amount)

	require.NoError(t, g.UpdateStreak(ctx, "03-05-2024"))
	assert.True(t, streak.Increment)
	assert.Equal(t, "03-05-2024", streak.ClientDate)
}
