package game

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/SlpAus/schafkopf-scoring-backend/internal/participant"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/platform/database"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/round"
	"github.com/SlpAus/schafkopf-scoring-backend/internal/scoring"
	"github.com/SlpAus/schafkopf-scoring-backend/pkg/token"
	"github.com/gin-gonic/gin"
)

// setupDB 准备一个内存数据库，包含四名参与者 (ID 1-4) 和一个Runde (ID 1)
func setupDB(t *testing.T) {
	t.Helper()
	db, err := database.OpenInMemory(t.Name())
	if err != nil {
		t.Fatal(err)
	}
	database.DB = db
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	ctx := context.Background()
	if err := participant.MigrateDB(); err != nil {
		t.Fatal(err)
	}
	if err := round.PrimeDB(ctx); err != nil {
		t.Fatal(err)
	}
	if err := MigrateDB(); err != nil {
		t.Fatal(err)
	}
	for _, n := range [][2]string{{"Anna", "Huber"}, {"Bernd", "Maier"}, {"Christl", "Schmid"}, {"Done", "Wagner"}} {
		if _, err := participant.Create(ctx, n[0], n[1]); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := round.Create(ctx, "Stammtisch", "Zum Franziskaner", ""); err != nil {
		t.Fatal(err)
	}
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(database.DB, nil, token.NewSigner([]byte("test"))))
	r := gin.New()
	r.POST("/games/:variant/preview", h.PreviewGame)
	r.POST("/games/:variant", h.ConfirmGame)
	r.DELETE("/games/latest", h.InactivateLatestGame)
	r.GET("/rounds/:id/games", h.ListRoundGames)
	r.GET("/rounds/:id/next-seating", h.GetNextSeating)
	return r
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const rufspielRaw = `{"round_id":1,"dealer_id":4,"seat_ids":[1,2,3,4],"announcer_id":1,"partner_id":2,
	"rufsau":"EICHEL","eyes":61,"eyes_of_announcer":true}`

func TestPreviewConfirmFlow(t *testing.T) {
	setupDB(t)
	r := newRouter(t)

	// 1. 试算
	w := do(r, http.MethodPost, "/games/rufspiel/preview", rufspielRaw)
	if w.Code != http.StatusOK {
		t.Fatalf("preview: %d %s", w.Code, w.Body)
	}
	var preview Preview
	if err := json.Unmarshal(w.Body.Bytes(), &preview); err != nil {
		t.Fatal(err)
	}
	wantMessages := []string{
		"Huber, Anna gewinnt 20 Punkte!",
		"Maier, Bernd gewinnt 20 Punkte!",
		"Schmid, Christl verliert 20 Punkte!",
		"Wagner, Done verliert 20 Punkte!",
	}
	if !slices.Equal(preview.Messages, wantMessages) {
		t.Errorf("messages = %q", preview.Messages)
	}
	wantRows := []Row{{Label: "Grundpunkte", Value: "20"}, {Label: "Summe", Value: "20"}}
	if !slices.Equal(preview.Breakdown, wantRows) {
		t.Errorf("breakdown = %+v", preview.Breakdown)
	}

	confirm := map[string]any{"raw": json.RawMessage(rufspielRaw), "token": preview.Token, "signature": preview.Signature}

	// 2. 篡改输入后签名失效
	tampered := map[string]any{
		"raw":       json.RawMessage(bytes.Replace([]byte(rufspielRaw), []byte(`"eyes":61`), []byte(`"eyes":91`), 1)),
		"token":     preview.Token,
		"signature": preview.Signature,
	}
	if w := do(r, http.MethodPost, "/games/rufspiel", tampered); w.Code != http.StatusBadRequest {
		t.Fatalf("tampered confirm: %d %s", w.Code, w.Body)
	}
	if w := do(r, http.MethodPost, "/games/solo", confirm); w.Code == http.StatusCreated {
		t.Fatalf("confirm under other variant accepted")
	}

	// 3. 提交，再次提交视为重放
	w = do(r, http.MethodPost, "/games/rufspiel", confirm)
	if w.Code != http.StatusCreated {
		t.Fatalf("confirm: %d %s", w.Code, w.Body)
	}
	w = do(r, http.MethodPost, "/games/rufspiel", confirm)
	if w.Code != http.StatusConflict || !bytes.Contains(w.Body.Bytes(), []byte(`"game_id":1`)) {
		t.Fatalf("replay: %d %s", w.Code, w.Body)
	}

	// 4. 历史记录
	w = do(r, http.MethodGet, "/rounds/1/games", nil)
	var games []GameResponse
	if err := json.Unmarshal(w.Body.Bytes(), &games); err != nil {
		t.Fatal(err)
	}
	if len(games) != 1 {
		t.Fatalf("games = %+v", games)
	}
	g := games[0]
	if g.GameType != "RUFSPIEL" || g.Suit != "EICHEL" || g.Points != 20 || *g.AnnouncerID != 1 || *g.PartnerID != 2 {
		t.Errorf("game = %+v", g)
	}
	gotEyes := []int{}
	for _, res := range g.Results {
		gotEyes = append(gotEyes, res.Eyes)
	}
	if !slices.Equal(gotEyes, []int{61, 61, 59, 59}) {
		t.Errorf("eyes = %v", gotEyes)
	}

	// 5. 下一局座位
	w = do(r, http.MethodGet, "/rounds/1/next-seating", nil)
	var seating Seating
	json.Unmarshal(w.Body.Bytes(), &seating)
	if seating.DealerID != 1 || seating.SeatIDs != [4]uint{2, 3, 4, 1} {
		t.Errorf("seating = %+v", seating)
	}

	// 6. 作废
	if w := do(r, http.MethodDelete, "/games/latest", nil); w.Code != http.StatusOK {
		t.Fatalf("inactivate: %d %s", w.Code, w.Body)
	}
	if w := do(r, http.MethodDelete, "/games/latest", nil); w.Code != http.StatusNotFound {
		t.Fatalf("second inactivate: %d %s", w.Code, w.Body)
	}
	if w := do(r, http.MethodGet, "/rounds/1/next-seating", nil); w.Code != http.StatusNotFound {
		t.Fatalf("seating without games: %d", w.Code)
	}
	// 作废后令牌仍然不能再用
	if w := do(r, http.MethodPost, "/games/rufspiel", confirm); w.Code != http.StatusConflict {
		t.Fatalf("replay after inactivate: %d %s", w.Code, w.Body)
	}
}

func TestHandlerErrors(t *testing.T) {
	setupDB(t)
	r := newRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown variant", http.MethodPost, "/games/skat/preview", rufspielRaw, http.StatusNotFound},
		{"not json", http.MethodPost, "/games/rufspiel/preview", "{", http.StatusBadRequest},
		{"rejected", http.MethodPost, "/games/rufspiel/preview", `{}`, http.StatusUnprocessableEntity},
		{"confirm without token", http.MethodPost, "/games/rufspiel", map[string]any{"raw": json.RawMessage(rufspielRaw)}, http.StatusBadRequest},
		{"bad round id", http.MethodGet, "/rounds/abc/games", nil, http.StatusBadRequest},
		{"unknown round", http.MethodGet, "/rounds/42/games", nil, http.StatusNotFound},
		{"nothing to inactivate", http.MethodDelete, "/games/latest", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(r, tt.method, tt.path, tt.body); w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body)
			}
		})
	}

	w := do(r, http.MethodPost, "/games/ramsch/preview",
		`{"round_id":1,"dealer_id":4,"seat_ids":[1,2,3,4],"eyes":[40,40,20,20]}`)
	var body struct{ Messages []string }
	json.Unmarshal(w.Body.Bytes(), &body)
	want := []string{"Gleichstand mit 40 Augen zwischen Huber, Anna; Maier, Bernd. Bitte genau einen davon als Verlierer wählen."}
	if w.Code != http.StatusUnprocessableEntity || !slices.Equal(body.Messages, want) {
		t.Fatalf("ramsch tie: %d %q", w.Code, body.Messages)
	}

	w = do(r, http.MethodPost, "/games/ramsch/preview",
		`{"round_id":1,"dealer_id":4,"seat_ids":[1,2,3,9],"eyes":[40,30,30,20]}`)
	body.Messages = nil
	json.Unmarshal(w.Body.Bytes(), &body)
	if w.Code != http.StatusUnprocessableEntity || !slices.Contains(body.Messages, "Teilnehmer 9 ist nicht registriert.") {
		t.Fatalf("unregistered seat: %d %q", w.Code, body.Messages)
	}
}

func TestWriterRamsch(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	w := NewWriter(database.DB, nil)

	cfg := scoring.RamschConfig{
		Table: scoring.Table{
			RoundID: 1, DealerID: 4, Seats: [4]uint{1, 2, 3, 4},
			Raised: []uint{2}, Points: scoring.DefaultPointsConfig(),
		},
		Eyes:        [4]int{70, 30, 20, 0},
		JungfrauIDs: []uint{4},
		LoserID:     1,
	}
	res := scoring.Calculate(cfg)
	id, err := w.Write(ctx, "tok-1", cfg, res, map[string]any{"k": "v"})
	if err != nil {
		t.Fatal(err)
	}
	if again, err := w.Write(ctx, "tok-1", cfg, res, nil); !errors.Is(err, ErrReplay) || again != id {
		t.Fatalf("replay = %d, %v", again, err)
	}

	var g Game
	if err := database.DB.Preload("Results").Preload("Doublings").First(&g, id).Error; err != nil {
		t.Fatal(err)
	}
	if g.AnnouncerID != nil || g.GameType != "RAMSCH" || g.Points != 80 {
		t.Errorf("game = %+v", g)
	}
	var points []float64
	var eyes []int
	for _, r := range g.Results {
		points = append(points, r.Points)
		eyes = append(eyes, r.Eyes)
	}
	if !slices.Equal(points, []float64{-240, 80, 80, 80}) || !slices.Equal(eyes, []int{70, 30, 20, 0}) {
		t.Errorf("results points=%v eyes=%v", points, eyes)
	}
	var kinds []string
	for _, d := range g.Doublings {
		kinds = append(kinds, fmt.Sprintf("%s:%d", d.Kind, d.ParticipantID))
	}
	if !slices.Equal(kinds, []string{"GELEGT:2", "JUNGFRAU:4"}) {
		t.Errorf("doublings = %v", kinds)
	}
	if string(g.RawInput) != `{"k":"v"}` {
		t.Errorf("raw = %s", g.RawInput)
	}
}

func TestRotate(t *testing.T) {
	tests := []struct {
		name string
		last Game
		want Seating
	}{
		{
			name: "four players",
			last: Game{DealerID: 4, LeadID: 1, MiddleID: 2, RearID: 3, DealerHandID: 4},
			want: Seating{DealerID: 1, SeatIDs: [4]uint{2, 3, 4, 1}},
		},
		{
			name: "dealer sat out",
			last: Game{DealerID: 5, LeadID: 1, MiddleID: 2, RearID: 3, DealerHandID: 4},
			want: Seating{DealerID: 1, SeatIDs: [4]uint{2, 3, 4, 5}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rotate(tt.last); got != tt.want {
				t.Errorf("rotate = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPresentSoloTout(t *testing.T) {
	cfg := scoring.SoloConfig{
		Table: scoring.Table{
			RoundID: 1, DealerID: 4, Seats: [4]uint{1, 2, 3, 4},
			Raised: []uint{2}, Points: scoring.DefaultPointsConfig(),
		},
		Play: scoring.Play{AnnouncerID: 1, SpielerAugen: 120, Laufende: 3},
		Kind: scoring.SoloWenz,
		Tout: scoring.ToutWon,
	}
	res := scoring.Calculate(cfg)
	name := func(_ context.Context, id uint) string { return fmt.Sprintf("P%d", id) }

	got := Present(context.Background(), cfg, res, name)
	wantRows := []Row{
		{Label: "Grundpunkte", Value: "50"},
		{Label: "Laufende", Detail: "3", Value: "+30"},
		{Label: "Gelegt", Detail: "P2", Value: "x2"},
		{Label: "Tout", Value: "x2"},
		{Label: "Summe", Value: "320"},
	}
	if !slices.Equal(got.Breakdown, wantRows) {
		t.Errorf("breakdown = %+v", got.Breakdown)
	}
	wantMessages := []string{
		"P1 gewinnt 960 Punkte!",
		"P2 verliert 320 Punkte!",
		"P3 verliert 320 Punkte!",
		"P4 verliert 320 Punkte!",
	}
	if !slices.Equal(got.Messages, wantMessages) {
		t.Errorf("messages = %q", got.Messages)
	}
}

func TestPresentMessagesWinnersFirst(t *testing.T) {
	cfg := scoring.RufspielConfig{
		Table: scoring.Table{
			RoundID: 1, DealerID: 3, Seats: [4]uint{1, 2, 3, 4},
			Points: scoring.DefaultPointsConfig(),
		},
		Play:      scoring.Play{AnnouncerID: 4, SpielerAugen: 70},
		PartnerID: 2,
		Rufsau:    scoring.SuitEichel,
	}
	res := scoring.Calculate(cfg)
	name := func(_ context.Context, id uint) string { return fmt.Sprintf("P%d", id) }

	got := Present(context.Background(), cfg, res, name)
	want := []string{
		"P2 gewinnt 20 Punkte!",
		"P4 gewinnt 20 Punkte!",
		"P1 verliert 20 Punkte!",
		"P3 verliert 20 Punkte!",
	}
	if !slices.Equal(got.Messages, want) {
		t.Errorf("messages = %q", got.Messages)
	}
}

func TestSleepCtx(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := sleepCtx(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled wait = %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("cancelled wait took %v", elapsed)
	}

	if err := sleepCtx(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("short wait = %v", err)
	}
}
