package domain

import "github.com/google/uuid"

type AccountID = uuid.UUID
type TaskID = uuid.UUID
type CredentialID = uuid.UUID
