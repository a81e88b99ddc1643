package migrations

import (
	"log"

	"gorm.io/gorm"
)

// AddVoterOptionsToPoll adds the allow_voters_to_add_options column to the
// polls table. The setting shipped after the first release, so deployments
// created before it need the column backfilled with the default.
func AddVoterOptionsToPoll(db *gorm.DB) error {
	if !db.Migrator().HasTable(&Poll{}) {
		return nil
	}

	if db.Migrator().HasColumn(&Poll{}, "allow_voters_to_add_options") {
		return nil
	}

	err := db.Exec("ALTER TABLE polls ADD COLUMN allow_voters_to_add_options BOOLEAN NOT NULL DEFAULT FALSE").Error
	if err != nil {
		log.Printf("migration failed: %v", err)
		return err
	}
	log.Println("migration applied: added allow_voters_to_add_options to polls")
	return nil
}

// Poll is a minimal shadow of the real model, only used for schema checks.
type Poll struct {
	AllowVotersToAddOptions bool
}

func (Poll) TableName() string {
	return "polls"
}
