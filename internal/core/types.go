package core

import (
	"viewcore/pkg/query"
	"viewcore/pkg/record"
)

type (
	ID             = record.ID
	Record         = record.Record
	Mutation       = record.Mutation
	MergeSpec      = record.MergeSpec
	Criteria       = record.Criteria
	State          = record.State
	Table          = record.Table
	Session        = query.Session
	View           = query.View
	Entity         = query.Entity
	LoggedMutation = query.LoggedMutation
	Store          = query.Store
)

const (
	OpUpdate = record.OpUpdate
	OpDelete = record.OpDelete
)
