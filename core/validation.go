// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateRole validates that a Role has a known value.
func ValidateRole(role Role) error {
	if role != RoleHuman && role != RoleAssistant {
		return NewValidationError(
			fmt.Sprintf("invalid role %q", role),
			map[string]any{"role": string(role)})
	}
	return nil
}

// ValidateTurn validates a Turn according to domain rules.
//
// Validation rules:
//   - Contents must not be empty
//   - Role must be valid (human or assistant)
//
// The timestamp is not validated; it is assigned by the conversation log.
func ValidateTurn(turn *Turn) error {
	if turn == nil {
		return NewValidationError("turn is nil", nil)
	}
	if turn.Contents == "" {
		return NewValidationError("turn content cannot be empty", nil)
	}
	return ValidateRole(turn.Role)
}

// ValidateTopK validates a retrieval fan-in against the configured maximum.
func ValidateTopK(k, max int) error {
	if k < 1 || k > max {
		return NewValidationError(
			fmt.Sprintf("top-k must be between 1 and %d", max),
			map[string]any{"k": k, "max": max})
	}
	return nil
}
