package surveillance

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record status. Drafts may be arbitrarily incomplete; complete records
// passed full submit validation.
const (
	StatusDraft    = "draft"
	StatusComplete = "complete"
)

// Save actions accepted by create/update.
const (
	ActionSave   = "save"
	ActionSubmit = "submit"
)

// OtherOption is the escape hatch in the chemical and determinant
// vocabularies. It is a form selection only; the stored value is always
// the substituted free text, never the literal "Other".
const OtherOption = "Other"

// ChemicalVocabulary lists the scheduled chemicals offered for exposure
// monitoring. Anything else is captured through the Other free text.
var ChemicalVocabulary = []string{
	"Benzene", "Toluene", "Xylene", "Lead", "Mercury", "Cadmium",
	"Chromium", "Nickel", "Silica", "Asbestos", "Isocyanates",
	"Formaldehyde", "Methanol", "Sulphuric Acid",
}

// DeterminantVocabulary lists the biological exposure determinants
// matched to the chemical vocabulary.
var DeterminantVocabulary = []string{
	"S-phenylmercapturic acid", "Hippuric acid", "Methylhippuric acid",
	"Blood lead", "Urine mercury", "Urine cadmium", "Urine chromium",
	"Urine nickel", "Urine formic acid", "Urine methanol",
}

func inVocabulary(vocab []string, v string) bool {
	for _, entry := range vocab {
		if entry == v {
			return true
		}
	}
	return false
}

// selection maps a stored value back to (option, freetext) for form
// rendering: vocabulary entries select themselves, anything else selects
// Other with the stored value as free text.
func selection(vocab []string, stored string) (string, string) {
	if stored == "" {
		return "", ""
	}
	if inVocabulary(vocab, stored) {
		return stored, ""
	}
	return OtherOption, stored
}

// Symptoms is the systemic review section. Pointers distinguish
// unanswered from answered-no; submit requires every flag answered.
type Symptoms struct {
	RespiratoryCough      *bool `json:"respiratory_cough" db:"sym_respiratory_cough"`
	RespiratoryWheeze     *bool `json:"respiratory_wheeze" db:"sym_respiratory_wheeze"`
	RespiratoryBreathless *bool `json:"respiratory_breathless" db:"sym_respiratory_breathless"`
	SkinRash              *bool `json:"skin_rash" db:"sym_skin_rash"`
	SkinItch              *bool `json:"skin_itch" db:"sym_skin_itch"`
	NeuroHeadache         *bool `json:"neuro_headache" db:"sym_neuro_headache"`
	NeuroDizziness        *bool `json:"neuro_dizziness" db:"sym_neuro_dizziness"`
	NeuroNumbness         *bool `json:"neuro_numbness" db:"sym_neuro_numbness"`
	GINausea              *bool `json:"gi_nausea" db:"sym_gi_nausea"`
	GIAppetiteLoss        *bool `json:"gi_appetite_loss" db:"sym_gi_appetite_loss"`
	GeneralFatigue        *bool `json:"general_fatigue" db:"sym_general_fatigue"`
	GeneralWeightLoss     *bool `json:"general_weight_loss" db:"sym_general_weight_loss"`
}

func (s *Symptoms) allAnswered() bool {
	for _, f := range []*bool{
		s.RespiratoryCough, s.RespiratoryWheeze, s.RespiratoryBreathless,
		s.SkinRash, s.SkinItch, s.NeuroHeadache, s.NeuroDizziness,
		s.NeuroNumbness, s.GINausea, s.GIAppetiteLoss, s.GeneralFatigue,
		s.GeneralWeightLoss,
	} {
		if f == nil {
			return false
		}
	}
	return true
}

type Physical struct {
	HeightCM       *float64 `json:"height_cm" db:"height_cm"`
	WeightKG       *float64 `json:"weight_kg" db:"weight_kg"`
	BPSystolic     *int     `json:"bp_systolic" db:"bp_systolic"`
	BPDiastolic    *int     `json:"bp_diastolic" db:"bp_diastolic"`
	Pulse          *int     `json:"pulse" db:"pulse"`
	FindingSkin    *string  `json:"finding_skin" db:"finding_skin"`
	FindingLungs   *string  `json:"finding_lungs" db:"finding_lungs"`
	FindingHeart   *string  `json:"finding_heart" db:"finding_heart"`
	FindingAbdomen *string  `json:"finding_abdomen" db:"finding_abdomen"`
	FindingNeuro   *string  `json:"finding_neuro" db:"finding_neuro"`
}

func (p *Physical) vitalsComplete() bool {
	return p.HeightCM != nil && p.WeightKG != nil &&
		p.BPSystolic != nil && p.BPDiastolic != nil && p.Pulse != nil
}

type TargetOrgan struct {
	Organ         *string  `json:"organ" db:"target_organ"`
	LabFEV1       *float64 `json:"lab_fev1" db:"lab_fev1"`
	LabFVC        *float64 `json:"lab_fvc" db:"lab_fvc"`
	LabALT        *float64 `json:"lab_alt" db:"lab_alt"`
	LabCreatinine *float64 `json:"lab_creatinine" db:"lab_creatinine"`
	LabNotes      *string  `json:"lab_notes" db:"lab_notes"`
}

type Biological struct {
	Determinant      string  `json:"determinant" db:"bio_determinant"`
	DeterminantOther string  `json:"determinant_other,omitempty" db:"-"`
	Baseline         *string `json:"baseline" db:"bio_baseline"`
	Annual           *string `json:"annual" db:"bio_annual"`
}

type Recommendations struct {
	ContinueWork    bool       `json:"continue_work" db:"rec_continue_work"`
	ReduceExposure  bool       `json:"reduce_exposure" db:"rec_reduce_exposure"`
	MedicalRemoval  bool       `json:"medical_removal" db:"rec_medical_removal"`
	ReferSpecialist bool       `json:"refer_specialist" db:"rec_refer_specialist"`
	FollowupDate    *time.Time `json:"followup_date" db:"followup_date"`
	NextExamDate    *time.Time `json:"next_exam_date" db:"next_exam_date"`
}

// Record is one surveillance examination stored as a wide row.
type Record struct {
	ID        uuid.UUID `json:"id" db:"id"`
	PatientID uuid.UUID `json:"patient_id" db:"patient_id"`
	Examiner  *string   `json:"examiner" db:"examiner"`
	ExamDate  time.Time `json:"exam_date" db:"exam_date"`
	ExamType  *string   `json:"exam_type" db:"exam_type"`
	Status    string    `json:"status" db:"status"`

	Chemical         string  `json:"chemical" db:"chemical"`
	ChemicalOther    string  `json:"chemical_other,omitempty" db:"-"`
	ExposureDuration *string `json:"exposure_duration" db:"exposure_duration"`

	Symptoms        Symptoms        `json:"symptoms"`
	Physical        Physical        `json:"physical"`
	TargetOrgan     TargetOrgan     `json:"target_organ"`
	Biological      Biological      `json:"biological"`
	Recommendations Recommendations `json:"recommendations"`

	RespiratorFitness *string `json:"respirator_fitness" db:"respirator_fitness"`
	FitnessStatus     *string `json:"fitness_status" db:"fitness_status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ChemicalSelection returns the (option, freetext) pair that re-renders
// the stored chemical: vocabulary values select themselves, anything else
// selects Other with the value as free text.
func (r *Record) ChemicalSelection() (string, string) {
	return selection(ChemicalVocabulary, r.Chemical)
}

// DeterminantSelection is ChemicalSelection for the biological
// determinant.
func (r *Record) DeterminantSelection() (string, string) {
	return selection(DeterminantVocabulary, r.Biological.Determinant)
}

// NotFit reports whether either fitness conclusion contains "not fit",
// matched case-insensitively so "Not Fit for Work" and "NOT FIT to wear
// respirator" both trigger the removal flow.
func (r *Record) NotFit() bool {
	for _, field := range []*string{r.FitnessStatus, r.RespiratorFitness} {
		if field != nil && strings.Contains(strings.ToLower(*field), "not fit") {
			return true
		}
	}
	return false
}
