package services

import (
	"errors"

	"photo-contest-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles registration and per-user statistics. Authentication
// itself lives behind the gateway; this service only stores the credential
// hash and owns the registration coin grant.
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// RegisterUser creates a user with the starting coin balance. The email
// unique index backstops the existence pre-check under races.
func (s *UserService) RegisterUser(name, email, password string) (*models.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	var existing models.User
	err := s.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailAlreadyUsed
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Coins:        models.StartingCoinBalance,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailAlreadyUsed
		}
		return nil, err
	}
	return &user, nil
}

// GetUserStatistics returns the dashboard counters for one user.
func (s *UserService) GetUserStatistics(userID string) (*models.UserStatistics, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	stats := models.UserStatistics{
		UserID: user.ID,
		Name:   user.Name,
		Coins:  user.Coins,
	}
	if err := s.DB.Model(&models.Photo{}).
		Where("user_id = ?", userID).
		Count(&stats.PhotosUploaded).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Submission{}).
		Joins("JOIN photos ON photos.id = submissions.photo_id").
		Where("photos.user_id = ?", userID).
		Count(&stats.Submissions).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Vote{}).
		Where("user_id = ?", userID).
		Count(&stats.VotesCast).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Vote{}).
		Joins("JOIN photos ON photos.id = votes.photo_id").
		Where("photos.user_id = ?", userID).
		Count(&stats.VotesReceived).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// RegisterUserEndpoint handles POST /users/register.
func (s *UserService) RegisterUserEndpoint(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	user, err := s.RegisterUser(req.Name, req.Email, req.Password)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "registration successful",
		"user":    user,
	})
}

// GetUserStatisticsEndpoint handles GET /users/me/stats.
func (s *UserService) GetUserStatisticsEndpoint(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	stats, err := s.GetUserStatistics(userID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(stats)
}
