package store

import (
	"context"

	"collab-poll-backend/models"

	"gorm.io/gorm"
)

// GormStore implements PollStore on top of a *gorm.DB handle. Errors from gorm
// (ErrRecordNotFound, ErrDuplicatedKey) pass through untranslated; the service
// layer maps them to domain errors.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a database handle. The handle is opened once at process
// start and injected here; the store never reinitializes it.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindPoll(ctx context.Context, id uint) (*models.Poll, error) {
	var poll models.Poll
	if err := s.db.WithContext(ctx).First(&poll, id).Error; err != nil {
		return nil, err
	}
	return &poll, nil
}

// CreatePoll inserts the poll and its initial options in one transaction.
func (s *GormStore) CreatePoll(ctx context.Context, poll *models.Poll) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(poll).Error
	})
}

// UpdatePollOptions applies a bulk option replacement atomically: deletes,
// then in-place updates, then creates. All or nothing.
func (s *GormStore) UpdatePollOptions(ctx context.Context, pollID uint, batch OptionBatch) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(batch.DeleteIDs) > 0 {
			if err := tx.Where("poll_id = ? AND id IN ?", pollID, batch.DeleteIDs).
				Delete(&models.PollOption{}).Error; err != nil {
				return err
			}
		}

		for _, upd := range batch.Updates {
			if err := tx.Model(&models.PollOption{}).
				Where("id = ? AND poll_id = ?", upd.ID, pollID).
				Updates(map[string]interface{}{
					"text":       upd.Text,
					"sort_order": upd.SortOrder,
				}).Error; err != nil {
				return err
			}
		}

		for i := range batch.Creates {
			batch.Creates[i].PollID = pollID
			if err := tx.Create(&batch.Creates[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *GormStore) FindOption(ctx context.Context, id uint) (*models.PollOption, error) {
	var option models.PollOption
	if err := s.db.WithContext(ctx).First(&option, id).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (s *GormStore) FindOptionsByPoll(ctx context.Context, pollID uint) ([]models.PollOption, error) {
	var options []models.PollOption
	err := s.db.WithContext(ctx).
		Where("poll_id = ?", pollID).
		Order("sort_order asc").
		Find(&options).Error
	if err != nil {
		return nil, err
	}
	return options, nil
}

func (s *GormStore) CreateOption(ctx context.Context, option *models.PollOption) error {
	return s.db.WithContext(ctx).Create(option).Error
}

// CountVotesByOption returns vote counts keyed by option id. Options with no
// votes are absent from the map.
func (s *GormStore) CountVotesByOption(ctx context.Context, optionIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(optionIDs))
	if len(optionIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		OptionID uint
		Total    int64
	}
	err := s.db.WithContext(ctx).Model(&models.Vote{}).
		Select("option_id, count(*) as total").
		Where("option_id IN ?", optionIDs).
		Group("option_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.OptionID] = row.Total
	}
	return counts, nil
}

func (s *GormStore) FindVote(ctx context.Context, optionID uint, userID string) (*models.Vote, error) {
	var vote models.Vote
	err := s.db.WithContext(ctx).
		Where("option_id = ? AND user_id = ?", optionID, userID).
		First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

func (s *GormStore) CreateVote(ctx context.Context, vote *models.Vote) error {
	return s.db.WithContext(ctx).Create(vote).Error
}

// ReplaceUserVote retracts every vote the user holds anywhere in the poll and
// inserts the new one, inside a single transaction. Used for single-vote-mode
// polls so a failed insert leaves the user with zero votes rather than a
// wrong one, and a concurrent read never sees both votes.
func (s *GormStore) ReplaceUserVote(ctx context.Context, pollID uint, vote *models.Vote) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var optionIDs []uint
		err := tx.Model(&models.PollOption{}).
			Where("poll_id = ?", pollID).
			Pluck("id", &optionIDs).Error
		if err != nil {
			return err
		}

		if len(optionIDs) > 0 {
			if err := tx.Where("user_id = ? AND option_id IN ?", vote.UserID, optionIDs).
				Delete(&models.Vote{}).Error; err != nil {
				return err
			}
		}

		return tx.Create(vote).Error
	})
}

// DeleteVote removes a vote by id. Returns gorm.ErrRecordNotFound when the
// vote is already gone so the caller can report it distinctly.
func (s *GormStore) DeleteVote(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Vote{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindVotesByUser lists a user's votes, optionally scoped to one poll via the
// option relation.
func (s *GormStore) FindVotesByUser(ctx context.Context, userID string, pollID *uint) ([]models.Vote, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)

	if pollID != nil {
		var optionIDs []uint
		err := s.db.WithContext(ctx).Model(&models.PollOption{}).
			Where("poll_id = ?", *pollID).
			Pluck("id", &optionIDs).Error
		if err != nil {
			return nil, err
		}
		if len(optionIDs) == 0 {
			return []models.Vote{}, nil
		}
		query = query.Where("option_id IN ?", optionIDs)
	}

	var votes []models.Vote
	if err := query.Find(&votes).Error; err != nil {
		return nil, err
	}
	return votes, nil
}

func (s *GormStore) FindVotesByPoll(ctx context.Context, pollID uint) ([]models.Vote, error) {
	var optionIDs []uint
	err := s.db.WithContext(ctx).Model(&models.PollOption{}).
		Where("poll_id = ?", pollID).
		Pluck("id", &optionIDs).Error
	if err != nil {
		return nil, err
	}
	if len(optionIDs) == 0 {
		return []models.Vote{}, nil
	}

	var votes []models.Vote
	err = s.db.WithContext(ctx).
		Where("option_id IN ?", optionIDs).
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	return votes, nil
}

func (s *GormStore) FindUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) FindUsers(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GormStore) CreateUser(ctx context.Context) (*models.User, error) {
	user := &models.User{}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *GormStore) UpdateUserName(ctx context.Context, id, name string) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
