package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/SORencber/smartpunkt-api/internal/shop/entity"
	"github.com/SORencber/smartpunkt-api/internal/shop/repository"
	"github.com/SORencber/smartpunkt-api/internal/shop/service"
	"github.com/SORencber/smartpunkt-api/internal/shop/testutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupEnv(t *testing.T) (*gin.Engine, *gorm.DB, *service.Services) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, nil, zap.NewNop(), 0)
	handlers := NewHandlers(services)

	r := testutil.SetupRouter()
	api := testutil.AuthGroup(r, "/api/v1")
	api.POST("/branch-parts", handlers.BranchPart.Sync)
	api.GET("/branch-parts", handlers.BranchPart.List)
	api.GET("/branch-parts/status", handlers.BranchPart.Status)
	api.PUT("/branch-parts/:id", handlers.BranchPart.Update)
	api.POST("/admin/sync-branch-parts", handlers.Admin.StartFullSync)
	api.GET("/admin/sync-branch-parts", handlers.Admin.FullSyncStatus)

	return r, db, services
}

func syncParts(t *testing.T, r *gin.Engine, token, branchID string, partIDs ...string) map[string]interface{} {
	t.Helper()
	parts := make([]map[string]string, len(partIDs))
	for i, id := range partIDs {
		parts[i] = map[string]string{"part_id": id}
	}
	w := testutil.DoRequest(r, "POST", "/api/v1/branch-parts", map[string]interface{}{
		"branch_id": branchID,
		"parts":     parts,
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("sync returned %d: %s", w.Code, w.Body.String())
	}
	return testutil.ParseResponse(w)
}

func reportStats(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data: %v", resp)
	}
	stats, ok := data["stats"].(map[string]interface{})
	if !ok {
		t.Fatalf("report has no stats: %v", data)
	}
	return stats
}

func TestSyncCreatesThenUpdates(t *testing.T) {
	r, db, _ := setupEnv(t)
	branch := testutil.SeedBranch(t, db, "branchsync01", "Berlin Mitte", "BER0001")
	part := testutil.SeedPart(t, db, "part0001", "brand01", "iPhone 13 Screen")
	token := testutil.AdminToken()

	resp := syncParts(t, r, token, branch.ID, part.ID)
	data := resp["data"].(map[string]interface{})
	results := data["results"].([]interface{})
	if len(results) != 1 {
		t.Fatalf("results = %v, want 1 entry", results)
	}
	if action := results[0].(map[string]interface{})["action"]; action != "created" {
		t.Errorf("first sync action = %v, want created", action)
	}
	stats := reportStats(t, resp)
	if stats["created"].(float64) != 1 || stats["updated"].(float64) != 0 {
		t.Errorf("first sync created/updated = %v/%v, want 1/0", stats["created"], stats["updated"])
	}

	resp = syncParts(t, r, token, branch.ID, part.ID)
	data = resp["data"].(map[string]interface{})
	results = data["results"].([]interface{})
	if action := results[0].(map[string]interface{})["action"]; action != "updated" {
		t.Errorf("second sync action = %v, want updated", action)
	}
	stats = reportStats(t, resp)
	if stats["created"].(float64) != 0 || stats["updated"].(float64) != 1 {
		t.Errorf("second sync created/updated = %v/%v, want 0/1", stats["created"], stats["updated"])
	}

	var count int64
	db.Table(repository.BranchTableName(branch.ID)).Count(&count)
	if count != 1 {
		t.Errorf("branch table rows = %d, want 1", count)
	}
}

func TestSyncPreservesBranchOwnedFields(t *testing.T) {
	r, db, services := setupEnv(t)
	branch := testutil.SeedBranch(t, db, "branchkeep01", "Hamburg", "HAM0001")
	part := testutil.SeedPart(t, db, "part0002", "brand01", "Battery")
	token := testutil.AdminToken()

	syncParts(t, r, token, branch.ID, part.ID)

	repos := repository.NewRepositories(db)
	bp, err := repos.BranchPart.FindByPartID(context.Background(), branch.ID, part.ID)
	if err != nil {
		t.Fatalf("find branch part: %v", err)
	}
	if bp.Stock != 0 || bp.MinStockLevel != 5 || bp.Margin != 20 || bp.ShelfNumber != "0" {
		t.Fatalf("branch defaults not seeded: %+v", bp)
	}

	// Branch-local edit.
	stock := 42
	shelf := "A3"
	w := testutil.DoRequest(r, "PUT",
		fmt.Sprintf("/api/v1/branch-parts/%s?branch_id=%s", bp.ID, branch.ID),
		map[string]interface{}{"branch_stock": stock, "branch_shelf_number": shelf}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("update returned %d: %s", w.Code, w.Body.String())
	}

	// Catalog edit plus re-sync must refresh the mirror but keep branch fields.
	name := service.LocalizedInput{TR: "Batarya v2", DE: "Akku v2", EN: "Battery v2"}
	if _, err := services.Part.Update(context.Background(), entity.UserRef{ID: "u1"}, part.ID,
		&service.UpdatePartRequest{Name: &name}); err != nil {
		t.Fatalf("update part: %v", err)
	}
	syncParts(t, r, token, branch.ID, part.ID)

	bp, err = repos.BranchPart.FindByPartID(context.Background(), branch.ID, part.ID)
	if err != nil {
		t.Fatalf("find branch part after re-sync: %v", err)
	}
	if bp.Name.EN != "Battery v2" {
		t.Errorf("catalog mirror not refreshed: name = %q", bp.Name.EN)
	}
	if bp.Stock != 42 {
		t.Errorf("branch stock = %d, want 42 preserved across sync", bp.Stock)
	}
	if bp.ShelfNumber != "A3" {
		t.Errorf("branch shelf = %q, want A3 preserved across sync", bp.ShelfNumber)
	}
}

func TestSyncPartialFailure(t *testing.T) {
	r, db, _ := setupEnv(t)
	branch := testutil.SeedBranch(t, db, "branchpart01", "Ankara", "ANK0001")
	p1 := testutil.SeedPart(t, db, "part0003", "brand01", "Charger")
	p2 := testutil.SeedPart(t, db, "part0004", "brand01", "Cable")
	token := testutil.AdminToken()

	resp := syncParts(t, r, token, branch.ID, p1.ID, "missing-part", p2.ID)
	stats := reportStats(t, resp)

	if stats["total"].(float64) != 3 {
		t.Errorf("total = %v, want 3", stats["total"])
	}
	if stats["success"].(float64) != 2 {
		t.Errorf("success = %v, want 2", stats["success"])
	}
	if stats["failed"].(float64) != 1 {
		t.Errorf("failed = %v, want 1", stats["failed"])
	}
	if stats["not_found"].(float64) != 1 {
		t.Errorf("not_found = %v, want 1", stats["not_found"])
	}

	data := resp["data"].(map[string]interface{})
	errs := data["errors"].([]interface{})
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want 1 entry", errs)
	}
	if partID := errs[0].(map[string]interface{})["part_id"]; partID != "missing-part" {
		t.Errorf("error part_id = %v, want missing-part", partID)
	}
}

func TestSyncCrossBranchForbidden(t *testing.T) {
	r, db, _ := setupEnv(t)
	branchA := testutil.SeedBranch(t, db, "brancha0001", "Branch A", "BRA0001")
	branchB := testutil.SeedBranch(t, db, "branchb0001", "Branch B", "BRB0001")
	part := testutil.SeedPart(t, db, "part0005", "brand01", "Camera")

	staffA := testutil.BranchToken(branchA.ID)
	w := testutil.DoRequest(r, "POST", "/api/v1/branch-parts", map[string]interface{}{
		"branch_id": branchB.ID,
		"parts":     []map[string]string{{"part_id": part.ID}},
	}, staffA)
	if w.Code != http.StatusForbidden {
		t.Errorf("cross-branch sync returned %d, want 403", w.Code)
	}

	// Nothing may have been written to B's table before the check.
	var count int64
	if err := db.Table(repository.BranchTableName(branchB.ID)).Count(&count).Error; err == nil && count != 0 {
		t.Errorf("branch B rows = %d, want 0", count)
	}

	// Same request as the branch's own staff succeeds.
	staffB := testutil.BranchToken(branchB.ID)
	resp := syncParts(t, r, staffB, branchB.ID, part.ID)
	if stats := reportStats(t, resp); stats["success"].(float64) != 1 {
		t.Errorf("own-branch sync success = %v, want 1", stats["success"])
	}
}

func TestLazyGetSyncsUnknownPart(t *testing.T) {
	r, db, _ := setupEnv(t)
	branch := testutil.SeedBranch(t, db, "branchlazy01", "Izmir", "IZM0001")
	part := testutil.SeedPart(t, db, "part0006", "brand01", "Speaker")
	token := testutil.BranchToken(branch.ID)

	w := testutil.DoRequest(r, "GET",
		fmt.Sprintf("/api/v1/branch-parts?branch_id=%s&part_id=%s", branch.ID, part.ID), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("lazy get returned %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["part_id"] != part.ID {
		t.Errorf("part_id = %v, want %s", data["part_id"], part.ID)
	}
	if data["branch_stock"].(float64) != 0 {
		t.Errorf("branch_stock = %v, want seeded 0", data["branch_stock"])
	}

	// Unknown catalog part stays a 404, nothing is created.
	w = testutil.DoRequest(r, "GET",
		fmt.Sprintf("/api/v1/branch-parts?branch_id=%s&part_id=nope", branch.ID), nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("lazy get of unknown part returned %d, want 404", w.Code)
	}
}

func TestUpdateOrphanedBranchPartNotFound(t *testing.T) {
	r, db, _ := setupEnv(t)
	branch := testutil.SeedBranch(t, db, "branchorph01", "Orphan", "ORP0001")
	part := testutil.SeedPart(t, db, "part0010", "brand01", "Antenna")
	token := testutil.AdminToken()

	syncParts(t, r, token, branch.ID, part.ID)

	repos := repository.NewRepositories(db)
	bp, err := repos.BranchPart.FindByPartID(context.Background(), branch.ID, part.ID)
	if err != nil {
		t.Fatalf("find branch part: %v", err)
	}

	// Catalog row disappears out from under the branch projection.
	if err := db.Exec("DELETE FROM parts WHERE id = ?", part.ID).Error; err != nil {
		t.Fatalf("delete part: %v", err)
	}

	w := testutil.DoRequest(r, "PUT",
		fmt.Sprintf("/api/v1/branch-parts/%s?branch_id=%s", bp.ID, branch.ID),
		map[string]interface{}{"branch_stock": 7}, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("orphaned update returned %d, want 404: %s", w.Code, w.Body.String())
	}

	// The branch row stays as it was.
	bp, err = repos.BranchPart.FindByID(context.Background(), branch.ID, bp.ID)
	if err != nil {
		t.Fatalf("find branch part after rejected update: %v", err)
	}
	if bp.Stock != 0 {
		t.Errorf("branch stock = %d, want untouched 0", bp.Stock)
	}
}

func TestInventoryStatusFlow(t *testing.T) {
	r, db, services := setupEnv(t)
	branch := testutil.SeedBranch(t, db, "branchstat01", "Bursa", "BUR0001")
	part := testutil.SeedPart(t, db, "part0007", "brandstatus", "Display")
	token := testutil.BranchToken(branch.ID)

	statusURL := fmt.Sprintf("/api/v1/branch-parts/status?branch_id=%s&brand_id=%s", branch.ID, part.BrandID)

	// Never synced: the brand exists in the catalog, so a sync is needed.
	w := testutil.DoRequest(r, "GET", statusURL, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("status returned %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["needs_update"] != true {
		t.Errorf("needs_update before sync = %v, want true", data["needs_update"])
	}

	syncParts(t, r, token, branch.ID, part.ID)

	w = testutil.DoRequest(r, "GET", statusURL, nil, token)
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["needs_update"] != false {
		t.Errorf("needs_update after sync = %v, want false", data["needs_update"])
	}
	if _, ok := data["last_part_update"]; !ok {
		t.Error("status payload missing last_part_update")
	}
	if _, ok := data["last_inventory_update"]; !ok {
		t.Error("status payload missing last_inventory_update")
	}

	// A catalog edit makes the branch stale again.
	price := service.MoneyInput{Amount: 25, Currency: "EUR"}
	if _, err := services.Part.Update(context.Background(), entity.UserRef{ID: "u1"}, part.ID,
		&service.UpdatePartRequest{Price: &price}); err != nil {
		t.Fatalf("update part: %v", err)
	}

	w = testutil.DoRequest(r, "GET", statusURL, nil, token)
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["needs_update"] != true {
		t.Errorf("needs_update after catalog edit = %v, want true", data["needs_update"])
	}
}

func TestFullSyncJob(t *testing.T) {
	r, db, services := setupEnv(t)
	b1 := testutil.SeedBranch(t, db, "branchfull01", "Full One", "FUL0001")
	b2 := testutil.SeedBranch(t, db, "branchfull02", "Full Two", "FUL0002")
	testutil.SeedPart(t, db, "part0008", "brand01", "Frame")
	testutil.SeedPart(t, db, "part0009", "brand01", "Glass")
	token := testutil.AdminToken()

	w := testutil.DoRequest(r, "POST", "/api/v1/admin/sync-branch-parts", nil, token)
	if w.Code != http.StatusAccepted {
		t.Fatalf("start returned %d: %s", w.Code, w.Body.String())
	}

	waitForJob(t, services)

	status := services.Sync.JobStatus()
	if status.BranchesTotal != 2 || status.BranchesDone != 2 {
		t.Errorf("branches done = %d/%d, want 2/2", status.BranchesDone, status.BranchesTotal)
	}
	if status.Stats.Success != 4 {
		t.Errorf("success = %d, want 4 (2 parts x 2 branches)", status.Stats.Success)
	}
	// Every pair is new on the first run.
	if status.Stats.Created != 4 || status.Stats.Updated != 0 {
		t.Errorf("created/updated = %d/%d, want 4/0", status.Stats.Created, status.Stats.Updated)
	}
	if status.FinishedAt == nil || status.Duration <= 0 {
		t.Errorf("job finished without a duration: finished_at=%v duration=%v", status.FinishedAt, status.Duration)
	}

	for _, branchID := range []string{b1.ID, b2.ID} {
		var count int64
		db.Table(repository.BranchTableName(branchID)).Count(&count)
		if count != 2 {
			t.Errorf("branch %s rows = %d, want 2", branchID, count)
		}
	}

	w = testutil.DoRequest(r, "GET", "/api/v1/admin/sync-branch-parts", nil, token)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["running"] != false {
		t.Errorf("running = %v, want false after completion", data["running"])
	}
}

func waitForJob(t *testing.T, services *service.Services) {
	t.Helper()
	for i := 0; i < 200; i++ {
		if st := services.Sync.JobStatus(); !st.Running {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("full sync did not finish in time")
}
