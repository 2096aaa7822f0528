package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Service struct {
	Store     *Store
	Txn       Storage
	Types     TypeCatalog
	Directory EmployeeDirectory
	Now       func() time.Time
}

func NewService(store *Store, types TypeCatalog, directory EmployeeDirectory) *Service {
	return &Service{Store: store, Txn: store, Types: types, Directory: directory, Now: time.Now}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type YearConfigInput struct {
	CutoffStart time.Time
	CutoffEnd   time.Time
	Remarks     string
	Active      bool
}

// CreateYearConfig derives the year identifier from the cutoff pair and
// persists the configuration. A duplicate identifier is a conflict.
func (s *Service) CreateYearConfig(ctx context.Context, input YearConfigInput) (YearConfig, error) {
	if !input.CutoffEnd.After(input.CutoffStart) {
		return YearConfig{}, ErrInvalidDateRange
	}

	cfg := YearConfig{
		Year:        YearIdentifier(input.CutoffStart, input.CutoffEnd),
		CutoffStart: input.CutoffStart,
		CutoffEnd:   input.CutoffEnd,
		Remarks:     input.Remarks,
		Active:      input.Active,
	}
	err := s.Store.DB.QueryRow(ctx, `
    INSERT INTO leave_year_configs (year, cutoff_start, cutoff_end, remarks, active)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id, created_at
  `, cfg.Year, cfg.CutoffStart, cfg.CutoffEnd, cfg.Remarks, cfg.Active).Scan(&cfg.ID, &cfg.CreatedAt)
	if isUniqueViolation(err) {
		return YearConfig{}, ErrDuplicateYear
	}
	if err != nil {
		return YearConfig{}, err
	}
	return cfg, nil
}

// UpdateYearConfigDates moves the cutoff window of an existing configuration.
// The year identifier is regenerated, so uniqueness is re-checked.
func (s *Service) UpdateYearConfigDates(ctx context.Context, id string, cutoffStart, cutoffEnd time.Time) (YearConfig, error) {
	if !cutoffEnd.After(cutoffStart) {
		return YearConfig{}, ErrInvalidDateRange
	}

	year := YearIdentifier(cutoffStart, cutoffEnd)
	tag, err := s.Store.DB.Exec(ctx, `
    UPDATE leave_year_configs
    SET year = $2, cutoff_start = $3, cutoff_end = $4
    WHERE id = $1
  `, id, year, cutoffStart, cutoffEnd)
	if isUniqueViolation(err) {
		return YearConfig{}, ErrDuplicateYear
	}
	if err != nil {
		return YearConfig{}, err
	}
	if tag.RowsAffected() == 0 {
		return YearConfig{}, ErrYearConfigNotFound
	}
	return s.GetYearConfig(ctx, id)
}

func (s *Service) GetYearConfig(ctx context.Context, id string) (YearConfig, error) {
	var cfg YearConfig
	err := s.Store.DB.QueryRow(ctx, `
    SELECT id, year, cutoff_start, cutoff_end, COALESCE(remarks, ''), active, created_at
    FROM leave_year_configs
    WHERE id = $1
  `, id).Scan(&cfg.ID, &cfg.Year, &cfg.CutoffStart, &cfg.CutoffEnd, &cfg.Remarks, &cfg.Active, &cfg.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return YearConfig{}, ErrYearConfigNotFound
	}
	return cfg, err
}

func (s *Service) ListYearConfigs(ctx context.Context) ([]YearConfig, error) {
	rows, err := s.Store.DB.Query(ctx, `
    SELECT id, year, cutoff_start, cutoff_end, COALESCE(remarks, ''), active, created_at
    FROM leave_year_configs
    ORDER BY cutoff_start DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []YearConfig
	for rows.Next() {
		var cfg YearConfig
		if err := rows.Scan(&cfg.ID, &cfg.Year, &cfg.CutoffStart, &cfg.CutoffEnd, &cfg.Remarks, &cfg.Active, &cfg.CreatedAt); err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

// ActiveYearConfig returns the configuration whose window contains date.
func (s *Service) ActiveYearConfig(ctx context.Context, date time.Time) (YearConfig, error) {
	configs, err := s.ListYearConfigs(ctx)
	if err != nil {
		return YearConfig{}, err
	}
	for _, cfg := range configs {
		if !cfg.Active {
			continue
		}
		if _, ok := ResolveYear(date, cfg); ok {
			return cfg, nil
		}
	}
	return YearConfig{}, ErrYearConfigNotFound
}

// CreatePolicy persists a new policy. It always starts in draft state.
func (s *Service) CreatePolicy(ctx context.Context, policy Policy) (Policy, error) {
	exists, err := s.Types.LeaveTypeExists(ctx, policy.LeaveTypeID)
	if err != nil {
		return Policy{}, err
	}
	if !exists {
		return Policy{}, ErrLeaveTypeNotFound
	}
	if policy.AnnualEntitlement.IsNegative() || policy.CarryLimit.IsNegative() || policy.EncashLimit.IsNegative() {
		return Policy{}, ErrInvalidDays
	}
	if policy.CycleYears <= 0 {
		policy.CycleYears = 1
	}

	policy.Status = PolicyDraft
	err = s.Store.DB.QueryRow(ctx, `
    INSERT INTO leave_policies (leave_type_id, annual_entitlement, carry_over_limit, encash_limit, cycle_years, effective_date, expiry_date, status, min_service_months, allowed_statuses)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    RETURNING id, created_at
  `, policy.LeaveTypeID, policy.AnnualEntitlement, policy.CarryLimit, policy.EncashLimit,
		policy.CycleYears, policy.EffectiveDate, policy.ExpiryDate, policy.Status,
		policy.MinServiceMonths, policy.AllowedStatuses).Scan(&policy.ID, &policy.CreatedAt)
	if err != nil {
		return Policy{}, err
	}
	return policy, nil
}

// ActivatePolicy moves a policy to active. Activating an already active
// policy succeeds silently; a retired policy stays retired. Keeping a single
// active policy per leave type is the caller's responsibility.
func (s *Service) ActivatePolicy(ctx context.Context, id string) error {
	return s.Txn.InTx(ctx, func(ctx context.Context, tx TxStore) error {
		policy, err := tx.GetPolicy(ctx, id)
		if err != nil {
			return err
		}
		if policy.Status == PolicyRetired {
			return ErrPolicyRetired
		}
		ok, err := tx.UpdatePolicyStatus(ctx, id, PolicyActive)
		if err != nil {
			return err
		}
		if !ok {
			return ErrWriteFailed
		}
		return nil
	})
}

// RetirePolicy moves an active policy to retired, terminally.
func (s *Service) RetirePolicy(ctx context.Context, id string) error {
	return s.Txn.InTx(ctx, func(ctx context.Context, tx TxStore) error {
		policy, err := tx.GetPolicy(ctx, id)
		if err != nil {
			return err
		}
		if policy.Status == PolicyDraft {
			return ErrInvalidState
		}
		ok, err := tx.UpdatePolicyStatus(ctx, id, PolicyRetired)
		if err != nil {
			return err
		}
		if !ok {
			return ErrWriteFailed
		}
		return nil
	})
}

func (s *Service) GetPolicy(ctx context.Context, id string) (Policy, error) {
	policy, err := scanPolicy(s.Store.DB.QueryRow(ctx, `
    SELECT `+policyColumns+`
    FROM leave_policies
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Policy{}, ErrPolicyNotFound
	}
	return policy, err
}

func (s *Service) ListPolicies(ctx context.Context) ([]Policy, error) {
	rows, err := s.Store.DB.Query(ctx, `
    SELECT `+policyColumns+`
    FROM leave_policies
    ORDER BY created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []Policy
	for rows.Next() {
		policy, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		policies = append(policies, policy)
	}
	return policies, rows.Err()
}

// ActivePolicyForType selects "the active policy" for a leave type, newest
// effective date first.
func (s *Service) ActivePolicyForType(ctx context.Context, leaveTypeID string) (Policy, error) {
	policy, err := scanPolicy(s.Store.DB.QueryRow(ctx, `
    SELECT `+policyColumns+`
    FROM leave_policies
    WHERE leave_type_id = $1 AND status = $2
    ORDER BY effective_date DESC
    LIMIT 1
  `, leaveTypeID, PolicyActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return Policy{}, ErrPolicyNotFound
	}
	return policy, err
}

// CheckEligibility resolves the employee from the directory and evaluates the
// policy's eligibility predicate as of referenceDate.
func (s *Service) CheckEligibility(ctx context.Context, employeeID, policyID string, referenceDate time.Time) (EligibilityResult, error) {
	policy, err := s.GetPolicy(ctx, policyID)
	if err != nil {
		return EligibilityResult{}, err
	}
	employee, err := s.Directory.FindEmployee(ctx, employeeID)
	if err != nil {
		return EligibilityResult{}, err
	}
	if referenceDate.IsZero() {
		referenceDate = s.Now()
	}
	return policy.Eligibility(employee.HireDate, employee.EmploymentStatus, referenceDate), nil
}
