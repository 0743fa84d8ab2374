package service

import (
	"time"

	"github.com/examhall/examhall-backend/internal/model"
)

// AttemptingFreshness is how recent a terminal's last poll must be for a
// self-reported ATTEMPTING to still be believed. Beyond it the terminal is
// shown as merely ONLINE.
const AttemptingFreshness = 30 * time.Second

// DeriveLiveStatus computes the label shown for a seated terminal from its
// stored signals. It is a pure derivation; nothing is persisted.
//
// Precedence, highest first:
//  1. FINISHED is sticky once the stored status reaches it.
//  2. A fresh self-reported ATTEMPTING wins; a stale one degrades to ONLINE.
//  3. An assigned exam that is IN_PROGRESS means the seat should be WAITING
//     (the student can enter but has not).
//  4. An assigned exam that is SCHEDULED means READY.
//  5. Otherwise ONLINE.
func DeriveLiveStatus(stored model.LiveStatus, examStatus *model.ExamStatus, lastSeen, now time.Time) model.LiveStatus {
	if stored == model.LiveStatusFinished {
		return model.LiveStatusFinished
	}
	if stored == model.LiveStatusAttempting {
		if now.Sub(lastSeen) <= AttemptingFreshness {
			return model.LiveStatusAttempting
		}
		return model.LiveStatusOnline
	}
	if examStatus != nil {
		switch *examStatus {
		case model.ExamStatusInProgress:
			return model.LiveStatusWaiting
		case model.ExamStatusScheduled:
			return model.LiveStatusReady
		}
	}
	return model.LiveStatusOnline
}
