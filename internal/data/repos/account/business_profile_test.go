package account

import (
	"context"
	"testing"

	"gorm.io/datatypes"

	"github.com/yungbote/searchlift-backend/internal/data/repos/testutil"
)

func TestBusinessProfileUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewBusinessProfileRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "profile@example.com")

	got, err := repo.GetByUserID(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("GetByUserID (missing): %v", err)
	}
	if got != nil {
		t.Fatalf("GetByUserID (missing): expected nil")
	}

	created := testutil.SeedBusinessProfile(t, ctx, tx, user.ID)

	created.BusinessName = "Acme Plumbing Co"
	created.Offerings = datatypes.JSON([]byte(`["drain cleaning"]`))
	if _, err := repo.Upsert(ctx, tx, created); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err = repo.GetByUserID(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if got == nil || got.BusinessName != "Acme Plumbing Co" {
		t.Fatalf("Upsert did not update: %+v", got)
	}
	if got.ID != created.ID {
		t.Fatalf("Upsert created a second row for the user")
	}
}
