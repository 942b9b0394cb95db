package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventhub/event-service/internal/domain"
)

// UserSort selects the admin user listing order.
type UserSort string

const (
	UserSortJoinedRecent UserSort = "date_joined_most_recent"
	UserSortJoinedOldest UserSort = "date_joined_oldest"
	UserSortNameAsc      UserSort = "alphabetical_a_z"
	UserSortNameDesc     UserSort = "alphabetical_z_a"
	UserSortAgeOldest    UserSort = "age_oldest"
	UserSortAgeYoungest  UserSort = "age_youngest"
)

var userOrderBy = map[UserSort]string{
	UserSortJoinedRecent: "date_joined DESC, id DESC",
	UserSortJoinedOldest: "date_joined ASC, id ASC",
	UserSortNameAsc:      "LOWER(fullname) ASC, id ASC",
	UserSortNameDesc:     "LOWER(fullname) DESC, id DESC",
	UserSortAgeOldest:    "birthday ASC NULLS LAST, id ASC",
	UserSortAgeYoungest:  "birthday DESC NULLS LAST, id ASC",
}

// Valid reports whether s is a known listing order.
func (s UserSort) Valid() bool {
	_, ok := userOrderBy[s]
	return ok
}

// UserFilter captures admin user search parameters. Admin accounts are never
// listed.
type UserFilter struct {
	Role   domain.AccountType
	Gender *domain.Gender
	MinAge *int
	MaxAge *int
	Search string
	Today  time.Time
	Sort   UserSort
	Limit  int
	Offset int
}

// UserProfilePatch lists the self-editable profile fields.
type UserProfilePatch struct {
	PhoneNumber *string
	Birthday    *time.Time
	ProfilePic  *string
	Gender      *domain.Gender
}

// Empty reports whether the patch changes nothing.
func (p UserProfilePatch) Empty() bool {
	return p.PhoneNumber == nil && p.Birthday == nil && p.ProfilePic == nil && p.Gender == nil
}

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, patch UserProfilePatch) error
	SetStatus(ctx context.Context, id int64, status domain.AccountStatus) error
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, account_type, account_status, date_joined, profile_pic, fullname, gender,
       email, phone_number, birthday, organizer_name, promotion_date, password_hash`

func userTargets(u *domain.User) []any {
	return []any{
		&u.ID,
		&u.AccountType,
		&u.AccountStatus,
		&u.DateJoined,
		&u.ProfilePic,
		&u.Fullname,
		&u.Gender,
		&u.Email,
		&u.PhoneNumber,
		&u.Birthday,
		&u.OrganizerName,
		&u.PromotionDate,
		&u.PasswordHash,
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (account_type, account_status, date_joined, fullname, gender, email,
            phone_number, birthday, password_hash)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		user.AccountType,
		user.AccountStatus,
		user.DateJoined,
		user.Fullname,
		user.Gender,
		user.Email,
		user.PhoneNumber,
		user.Birthday,
		user.PasswordHash,
	).Scan(&user.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email)=LOWER($1)`, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(userTargets(&user)...); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, patch UserProfilePatch) error {
	sets := []string{}
	args := []any{}
	if patch.PhoneNumber != nil {
		args = append(args, *patch.PhoneNumber)
		sets = append(sets, fmt.Sprintf("phone_number=$%d", len(args)))
	}
	if patch.Birthday != nil {
		args = append(args, *patch.Birthday)
		sets = append(sets, fmt.Sprintf("birthday=$%d", len(args)))
	}
	if patch.ProfilePic != nil {
		args = append(args, *patch.ProfilePic)
		sets = append(sets, fmt.Sprintf("profile_pic=$%d", len(args)))
	}
	if patch.Gender != nil {
		args = append(args, *patch.Gender)
		sets = append(sets, fmt.Sprintf("gender=$%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id=$%d", strings.Join(sets, ", "), len(args))
	return execAffecting(ctx, r.pool, query, args...)
}

func (r *userRepository) SetStatus(ctx context.Context, id int64, status domain.AccountStatus) error {
	return execAffecting(ctx, r.pool, `UPDATE users SET account_status=$1 WHERE id=$2`, status, id)
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]domain.User, error) {
	clauses := []string{"account_type <> 'admin'"}
	args := []any{}

	if filter.Role != "" {
		args = append(args, filter.Role)
		clauses = append(clauses, fmt.Sprintf("account_type=$%d", len(args)))
	}
	if filter.Gender != nil {
		args = append(args, *filter.Gender)
		clauses = append(clauses, fmt.Sprintf("gender=$%d", len(args)))
	}
	if filter.MinAge != nil {
		args = append(args, filter.Today.AddDate(-*filter.MinAge, 0, 0))
		clauses = append(clauses, fmt.Sprintf("birthday <= $%d", len(args)))
	}
	if filter.MaxAge != nil {
		args = append(args, filter.Today.AddDate(-*filter.MaxAge, 0, 0))
		clauses = append(clauses, fmt.Sprintf("birthday >= $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(fullname) LIKE $%d OR LOWER(email) LIKE $%d OR LOWER(COALESCE(phone_number, '')) LIKE $%d)", n, n, n))
	}

	orderBy, ok := userOrderBy[filter.Sort]
	if !ok {
		orderBy = userOrderBy[UserSortJoinedRecent]
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		userColumns, strings.Join(clauses, " AND "), orderBy, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(userTargets(&u)...); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
