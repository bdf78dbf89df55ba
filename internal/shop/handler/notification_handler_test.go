package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/SORencber/smartpunkt-api/internal/shop/entity"
	"github.com/SORencber/smartpunkt-api/internal/shop/service"
	"github.com/SORencber/smartpunkt-api/internal/shop/testutil"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func setupNotificationEnv(t *testing.T) (*gin.Engine, *gorm.DB, *service.Services) {
	t.Helper()
	r, db, services := setupEnv(t)
	api := testutil.AuthGroup(r, "/api/v1/notifications")
	h := NewNotificationHandler(services.Notification)
	api.GET("/unread", h.Unread)
	api.POST("/:id/read", h.MarkRead)
	api.POST("/read-all", h.MarkAllRead)
	return r, db, services
}

func createPart(t *testing.T, services *service.Services, nameEN string) *entity.Part {
	t.Helper()
	part, err := services.Part.Create(context.Background(), entity.UserRef{ID: "central-1", Name: "Central"},
		&service.CreatePartRequest{
			DeviceTypeID: "dt-test",
			BrandID:      "brand01",
			ModelID:      "model-test",
			Name:         service.LocalizedInput{TR: nameEN + " TR", DE: nameEN + " DE", EN: nameEN},
		})
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	return part
}

func TestPartCreateFansOutToActiveBranches(t *testing.T) {
	r, db, services := setupNotificationEnv(t)
	b1 := testutil.SeedBranch(t, db, "branchnote01", "Note One", "NTA0001")
	b2 := testutil.SeedBranch(t, db, "branchnote02", "Note Two", "NTB0001")
	inactive := testutil.SeedBranch(t, db, "branchnote03", "Closed", "NTC0001")
	db.Model(&entity.Branch{}).Where("id = ?", inactive.ID).Update("status", entity.BranchStatusInactive)

	part := createPart(t, services, "Home Button")

	for _, branch := range []*entity.Branch{b1, b2} {
		token := testutil.BranchToken(branch.ID)
		w := testutil.DoRequest(r, "GET", "/api/v1/notifications/unread?branch_id="+branch.ID, nil, token)
		if w.Code != http.StatusOK {
			t.Fatalf("unread returned %d: %s", w.Code, w.Body.String())
		}
		data := testutil.ParseResponse(w)["data"].(map[string]interface{})
		items := data["items"].([]interface{})
		if len(items) != 1 {
			t.Fatalf("branch %s unread = %d, want 1", branch.ID, len(items))
		}
		item := items[0].(map[string]interface{})
		if item["type"] != entity.NotificationPartCreate {
			t.Errorf("type = %v, want %s", item["type"], entity.NotificationPartCreate)
		}
		if item["part_id"] != part.ID {
			t.Errorf("part_id = %v, want %s", item["part_id"], part.ID)
		}
		summary, ok := item["part"].(map[string]interface{})
		if !ok {
			t.Fatalf("notification carries no part summary: %v", item)
		}
		if summary["id"] != part.ID {
			t.Errorf("summary id = %v, want %s", summary["id"], part.ID)
		}
	}

	// The inactive branch gets nothing.
	var count int64
	db.Model(&entity.Notification{}).Where("branch_id = ?", inactive.ID).Count(&count)
	if count != 0 {
		t.Errorf("inactive branch notifications = %d, want 0", count)
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	r, db, services := setupNotificationEnv(t)
	branch := testutil.SeedBranch(t, db, "branchread01", "Read One", "RDA0001")
	createPart(t, services, "Sim Tray")
	token := testutil.BranchToken(branch.ID)

	w := testutil.DoRequest(r, "GET", "/api/v1/notifications/unread?branch_id="+branch.ID, nil, token)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("unread = %d, want 1", len(items))
	}
	id := items[0].(map[string]interface{})["id"].(string)

	url := fmt.Sprintf("/api/v1/notifications/%s/read?branch_id=%s", id, branch.ID)
	if w := testutil.DoRequest(r, "POST", url, nil, token); w.Code != http.StatusOK {
		t.Fatalf("mark read returned %d: %s", w.Code, w.Body.String())
	}

	// Second flip finds no unread row.
	if w := testutil.DoRequest(r, "POST", url, nil, token); w.Code != http.StatusNotFound {
		t.Errorf("repeat mark read returned %d, want 404", w.Code)
	}

	w = testutil.DoRequest(r, "GET", "/api/v1/notifications/unread?branch_id="+branch.ID, nil, token)
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if total := data["total"].(float64); total != 0 {
		t.Errorf("unread after read = %v, want 0", total)
	}
}

func TestMarkAllReadIsBranchScoped(t *testing.T) {
	r, db, services := setupNotificationEnv(t)
	b1 := testutil.SeedBranch(t, db, "branchall01", "All One", "ALA0001")
	b2 := testutil.SeedBranch(t, db, "branchall02", "All Two", "ALB0001")
	createPart(t, services, "Back Cover")
	createPart(t, services, "Vibration Motor")

	token1 := testutil.BranchToken(b1.ID)
	w := testutil.DoRequest(r, "POST", "/api/v1/notifications/read-all?branch_id="+b1.ID, nil, token1)
	if w.Code != http.StatusOK {
		t.Fatalf("read-all returned %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if marked := data["marked"].(float64); marked != 2 {
		t.Errorf("marked = %v, want 2", marked)
	}

	// The other branch's feed is untouched.
	token2 := testutil.BranchToken(b2.ID)
	w = testutil.DoRequest(r, "GET", "/api/v1/notifications/unread?branch_id="+b2.ID, nil, token2)
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if total := data["total"].(float64); total != 2 {
		t.Errorf("other branch unread = %v, want 2", total)
	}
}

func TestUnreadCrossBranchForbidden(t *testing.T) {
	r, db, _ := setupNotificationEnv(t)
	b1 := testutil.SeedBranch(t, db, "branchfbd01", "Fbd One", "FBA0001")
	b2 := testutil.SeedBranch(t, db, "branchfbd02", "Fbd Two", "FBB0001")

	token := testutil.BranchToken(b1.ID)
	w := testutil.DoRequest(r, "GET", "/api/v1/notifications/unread?branch_id="+b2.ID, nil, token)
	if w.Code != http.StatusForbidden {
		t.Errorf("cross-branch unread returned %d, want 403", w.Code)
	}
}
