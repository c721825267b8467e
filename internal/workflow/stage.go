package workflow

import (
	"fmt"
)

// Type identifies which production pipeline a filing runs through.
type Type string

const (
	TypeVAT            Type = "vat"
	TypeLtdAccounts    Type = "ltd_accounts"
	TypeNonLtdAccounts Type = "nonltd_accounts"
)

// ParseType validates a stored workflow type string. Unknown values are a
// hard error, never defaulted.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if _, ok := sequences[t]; !ok {
		return "", fmt.Errorf("unknown workflow type %q", s)
	}

	return t, nil
}

// Stage is a step in a filing's production pipeline.
type Stage string

const (
	StageNotStarted             Stage = "not_started"
	StageChaseStarted           Stage = "chase_started"
	StagePaperworkReceived      Stage = "paperwork_received"
	StageWorkInProgress         Stage = "work_in_progress"
	StageQueriesSent            Stage = "queries_sent"
	StageQueriesResolved        Stage = "queries_resolved"
	StageReturnDrafted          Stage = "return_drafted"
	StageDraftAccountsPrepared  Stage = "draft_accounts_prepared"
	StageReviewedByManager      Stage = "reviewed_by_manager"
	StageReviewedByPartner      Stage = "reviewed_by_partner"
	StageSentToClient           Stage = "sent_to_client"
	StageClientQueries          Stage = "client_queries"
	StageClientApproved         Stage = "client_approved"
	StageReadyToFile            Stage = "ready_to_file"
	StageSignedAccountsReceived Stage = "signed_accounts_received"
	StageFiledToCompaniesHouse  Stage = "filed_to_companies_house"
	StageFiledToHMRC            Stage = "filed_to_hmrc"
)

// The stage sequences are data, not code: one ordered list per workflow
// type, shared by the validation engine and every stage picker.
var sequences = map[Type][]Stage{
	TypeVAT: {
		StageNotStarted,
		StageChaseStarted,
		StagePaperworkReceived,
		StageWorkInProgress,
		StageQueriesSent,
		StageQueriesResolved,
		StageReturnDrafted,
		StageReviewedByManager,
		StageReviewedByPartner,
		StageSentToClient,
		StageClientApproved,
		StageReadyToFile,
		StageFiledToHMRC,
	},
	TypeLtdAccounts: {
		StageNotStarted,
		StageChaseStarted,
		StagePaperworkReceived,
		StageWorkInProgress,
		StageQueriesSent,
		StageQueriesResolved,
		StageDraftAccountsPrepared,
		StageReviewedByManager,
		StageReviewedByPartner,
		StageSentToClient,
		StageClientQueries,
		StageClientApproved,
		StageSignedAccountsReceived,
		StageFiledToCompaniesHouse,
		StageFiledToHMRC,
	},
	TypeNonLtdAccounts: {
		StageNotStarted,
		StageChaseStarted,
		StagePaperworkReceived,
		StageWorkInProgress,
		StageQueriesSent,
		StageQueriesResolved,
		StageDraftAccountsPrepared,
		StageReviewedByManager,
		StageReviewedByPartner,
		StageSentToClient,
		StageClientApproved,
		StageFiledToHMRC,
	},
}

// autoSet stages are stamped by the system when a reviewer signs off; they
// are never offered as a user-selectable target.
var autoSet = map[Stage]struct{}{
	StageReviewedByManager: {},
	StageReviewedByPartner: {},
}

// regressionAllowed lists the only stages a workflow may move backwards
// into (rework support). Arbitrary earlier stages are not valid targets.
var regressionAllowed = map[Stage]struct{}{
	StageWorkInProgress: {},
	StageQueriesSent:    {},
	StageSentToClient:   {},
}

var displayNames = map[Stage]string{
	StageNotStarted:             "Not Started",
	StageChaseStarted:           "Chasing Records",
	StagePaperworkReceived:      "Paperwork Received",
	StageWorkInProgress:         "Work in Progress",
	StageQueriesSent:            "Queries Sent",
	StageQueriesResolved:        "Queries Resolved",
	StageReturnDrafted:          "Return Drafted",
	StageDraftAccountsPrepared:  "Draft Accounts Prepared",
	StageReviewedByManager:      "Reviewed by Manager",
	StageReviewedByPartner:      "Reviewed by Partner",
	StageSentToClient:           "Sent to Client",
	StageClientQueries:          "Client Queries",
	StageClientApproved:         "Client Approved",
	StageReadyToFile:            "Ready to File",
	StageSignedAccountsReceived: "Signed Accounts Received",
	StageFiledToCompaniesHouse:  "Filed to Companies House",
	StageFiledToHMRC:            "Filed to HMRC",
}

// Display returns the human-readable stage name.
func (s Stage) Display() string {
	if name, ok := displayNames[s]; ok {
		return name
	}

	return string(s)
}

// IsUserSelectable reports whether a stage may be offered in a stage picker.
func IsUserSelectable(s Stage) bool {
	_, auto := autoSet[s]
	return !auto
}

// Sequence returns a copy of the ordered stage list for the workflow type.
func Sequence(t Type) ([]Stage, error) {
	seq, ok := sequences[t]
	if !ok {
		return nil, fmt.Errorf("unknown workflow type %q", t)
	}

	out := make([]Stage, len(seq))
	copy(out, seq)

	return out, nil
}

// InitialStage is the "not started / waiting on records" stage every
// workflow type begins in.
func InitialStage(t Type) Stage {
	return StageNotStarted
}

// TerminalStage returns the filed-to-HMRC stage that completes the type's
// pipeline.
func TerminalStage(t Type) (Stage, error) {
	seq, ok := sequences[t]
	if !ok {
		return "", fmt.Errorf("unknown workflow type %q", t)
	}

	return seq[len(seq)-1], nil
}

func stageIndex(t Type, s Stage) (int, bool) {
	for i, stage := range sequences[t] {
		if stage == s {
			return i, true
		}
	}

	return 0, false
}
