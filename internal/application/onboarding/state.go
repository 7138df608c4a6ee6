package onboarding

import (
	"sync"

	"cosmed-backend/internal/pkg/constants"
)

// Purpose is the user's stated reason for signing up (step 1).
type Purpose string

const (
	PurposeSearch   Purpose = constants.PurposeSearch
	PurposeRegister Purpose = constants.PurposeRegister
	PurposeBoth     Purpose = constants.PurposeBoth
)

// Path is the wizard branch derived from the purpose.
type Path string

const (
	PathSearch   Path = "search"
	PathRegister Path = "register"
	PathBoth     Path = "both"
)

// PathForPurpose derives the wizard branch from a purpose ("" if unset).
func PathForPurpose(p Purpose) Path {
	switch p {
	case PurposeSearch:
		return PathSearch
	case PurposeRegister:
		return PathRegister
	case PurposeBoth:
		return PathBoth
	}
	return ""
}

// CompanyChoice is the company-association decision on the final steps.
type CompanyChoice string

const (
	CompanyExisting CompanyChoice = "existing"
	CompanyNew      CompanyChoice = "new"
	CompanyNone     CompanyChoice = "none"
)

// CompanyForm carries the fields for creating a company during onboarding.
type CompanyForm struct {
	CountryID   string `json:"countryId"`
	CompanyName string `json:"companyName"`
	LegalIDType string `json:"legalIdType"`
	LegalID     string `json:"legalId"`
	Address     string `json:"address,omitempty"`
}

// Data is the form data accumulated across wizard steps. Owned exclusively by
// the state machine until handed to the completion workflow.
type Data struct {
	Purpose           Purpose       `json:"purpose,omitempty"`
	FirstName         string        `json:"firstName,omitempty"`
	LastName          string        `json:"lastName,omitempty"`
	DepartmentID      string        `json:"departmentId,omitempty"`
	PositionID        string        `json:"positionId,omitempty"`
	CompanyChoice     CompanyChoice `json:"companyChoice,omitempty"`
	SelectedCompanyID string        `json:"selectedCompanyId,omitempty"`
	NewCompany        *CompanyForm  `json:"newCompanyData,omitempty"`
}

// DataPatch is a partial Data: nil fields are left untouched by Merge,
// non-nil fields overwrite (last write wins per field).
type DataPatch struct {
	Purpose           *Purpose
	FirstName         *string
	LastName          *string
	DepartmentID      *string
	PositionID        *string
	CompanyChoice     *CompanyChoice
	SelectedCompanyID *string
	NewCompany        *CompanyForm
}

func (d Data) merge(p DataPatch) Data {
	if p.Purpose != nil {
		d.Purpose = *p.Purpose
	}
	if p.FirstName != nil {
		d.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		d.LastName = *p.LastName
	}
	if p.DepartmentID != nil {
		d.DepartmentID = *p.DepartmentID
	}
	if p.PositionID != nil {
		d.PositionID = *p.PositionID
	}
	if p.CompanyChoice != nil {
		d.CompanyChoice = *p.CompanyChoice
	}
	if p.SelectedCompanyID != nil {
		d.SelectedCompanyID = *p.SelectedCompanyID
	}
	if p.NewCompany != nil {
		form := *p.NewCompany
		d.NewCompany = &form
	}
	return d
}

// State is the full wizard state for one session.
type State struct {
	CurrentStep int
	Direction   int // 1 forward, -1 backward; animation hint only
	Path        Path
	Data        Data
	IsLoading   bool
	IsCompleted bool
}

// InitialState returns the wizard defaults (step 1, empty data).
func InitialState() State {
	return State{CurrentStep: 1, Direction: 1}
}

// TotalSteps is the path-conditioned step count: an extra company-creation
// step is inserted when the path can register a company and the user chose
// to create a new one.
func TotalSteps(path Path, choice CompanyChoice) int {
	if (path == PathRegister || path == PathBoth) && choice == CompanyNew {
		return 4
	}
	return 3
}

// Action is the closed set of state transitions.
type Action interface{ isAction() }

type SetStep struct{ Step int }
type NextStep struct{}
type PrevStep struct{}
type SetPath struct{ Path Path }
type UpdateData struct{ Patch DataPatch }
type SetCompanyData struct{ Form CompanyForm }
type SetLoading struct{ Loading bool }
type Complete struct{}
type Reset struct{}
type Restore struct{ State State }

func (SetStep) isAction()        {}
func (NextStep) isAction()       {}
func (PrevStep) isAction()       {}
func (SetPath) isAction()        {}
func (UpdateData) isAction()     {}
func (SetCompanyData) isAction() {}
func (SetLoading) isAction()     {}
func (Complete) isAction()       {}
func (Reset) isAction()          {}
func (Restore) isAction()        {}

// Reduce is the pure transition function. It never performs I/O and handles
// every action; unknown actions cannot exist outside this package.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case SetStep:
		total := TotalSteps(s.Path, s.Data.CompanyChoice)
		if act.Step > s.CurrentStep {
			s.Direction = 1
		} else {
			s.Direction = -1
		}
		s.CurrentStep = clamp(act.Step, 1, total)
		return s

	case NextStep:
		if s.CurrentStep >= TotalSteps(s.Path, s.Data.CompanyChoice) {
			return s
		}
		s.Direction = 1
		s.CurrentStep++
		return s

	case PrevStep:
		if s.CurrentStep <= 1 {
			return s
		}
		s.Direction = -1
		s.CurrentStep--
		return s

	case SetPath:
		s.Path = act.Path
		return clampStep(s)

	case UpdateData:
		s.Data = s.Data.merge(act.Patch)
		return clampStep(s)

	case SetCompanyData:
		form := act.Form
		s.Data.NewCompany = &form
		return s

	case SetLoading:
		s.IsLoading = act.Loading
		return s

	case Complete:
		s.IsCompleted = true
		return s

	case Reset:
		return InitialState()

	case Restore:
		return act.State
	}
	return s
}

// clampStep re-applies the step bound after a path or company-choice change;
// switching from a 4-step to a 3-step branch while on step 4 pulls the user
// back to the new last step.
func clampStep(s State) State {
	total := TotalSteps(s.Path, s.Data.CompanyChoice)
	if s.CurrentStep > total {
		s.CurrentStep = total
		s.Direction = -1
	}
	return s
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Machine owns one wizard session's state and notifies subscribers after
// each transition. One machine per session; subscribers are called
// synchronously under no lock ordering guarantees beyond per-dispatch order.
type Machine struct {
	mu    sync.Mutex
	state State
	subs  map[int]func(State)
	nextS int
}

func NewMachine() *Machine {
	return &Machine{state: InitialState(), subs: make(map[int]func(State))}
}

// State returns a snapshot of the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Dispatch applies an action and notifies subscribers if the state changed.
func (m *Machine) Dispatch(a Action) {
	m.mu.Lock()
	next := Reduce(m.state, a)
	changed := next != m.state
	m.state = next
	var fns []func(State)
	if changed {
		fns = make([]func(State), 0, len(m.subs))
		for _, fn := range m.subs {
			fns = append(fns, fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}

// Subscribe registers a state-change observer; the returned func removes it.
func (m *Machine) Subscribe(fn func(State)) func() {
	m.mu.Lock()
	id := m.nextS
	m.nextS++
	m.subs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Convenience wrappers mirroring the wizard's operation set.

func (m *Machine) GoToStep(n int) { m.Dispatch(SetStep{Step: n}) }
func (m *Machine) NextStep() { m.Dispatch(NextStep{}) }
func (m *Machine) PrevStep() { m.Dispatch(PrevStep{}) }
func (m *Machine) SetPath(p Path) { m.Dispatch(SetPath{Path: p}) }
func (m *Machine) UpdateData(p DataPatch) { m.Dispatch(UpdateData{Patch: p}) }
func (m *Machine) SetCompanyData(f CompanyForm) { m.Dispatch(SetCompanyData{Form: f}) }
func (m *Machine) SetLoading(v bool) { m.Dispatch(SetLoading{Loading: v}) }
func (m *Machine) Complete() { m.Dispatch(Complete{}) }
func (m *Machine) Reset() { m.Dispatch(Reset{}) }
func (m *Machine) Restore(s State) { m.Dispatch(Restore{State: s}) }

// TotalSteps reports the bound for the current path and company choice.
func (m *Machine) TotalSteps() int {
	s := m.State()
	return TotalSteps(s.Path, s.Data.CompanyChoice)
}

// IsFirstStep and IsLastStep are the stepper's computed flags.
func (m *Machine) IsFirstStep() bool { return m.State().CurrentStep == 1 }

func (m *Machine) IsLastStep() bool {
	s := m.State()
	return s.CurrentStep == TotalSteps(s.Path, s.Data.CompanyChoice)
}
