package worker

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeFactCheck = "fact_check:run"

// ArchivePrefix is the object key prefix for archived fact checks.
const ArchivePrefix = "fact_checks"

type FactCheckPayload struct {
	CheckID string `json:"check_id"`
}

func NewFactCheckTask(checkID string) (*asynq.Task, error) {
	b, err := json.Marshal(FactCheckPayload{CheckID: checkID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeFactCheck, b), nil
}
