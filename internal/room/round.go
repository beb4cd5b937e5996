// internal/room/round.go
package room

import (
	"github.com/google/uuid"

	"promptduel/internal/deck"
)

// Phase is the explicit state of a round. Rounds move through the phases in a
// fixed linear order; the only branch is that an outright writer win skips
// PickerChoice.
type Phase string

const (
	PhaseAwaitingPrompt    Phase = "awaiting_prompt"
	PhaseAwaitingSelection Phase = "awaiting_selection"
	PhaseAwaitingCards     Phase = "awaiting_cards"
	PhasePickerChoice      Phase = "picker_choice"
	PhaseRoundComplete     Phase = "round_complete"
)

// Round is one hand of play. Writer and picker are rotation indices into the
// room's player slice, not player IDs; they are recomputed modulo the current
// player count only when a new round starts. A round is replaced wholesale at
// each advance, never partially reused.
type Round struct {
	Phase            Phase      `json:"phase"`
	WriterIndex      int        `json:"writerIndex"`
	PickerIndex      int        `json:"pickerIndex"`
	Prompt           *string    `json:"prompt"`
	SelectedPlayerID *uuid.UUID `json:"selectedPlayerId"`
	WriterCard       *int       `json:"writerCard"`
	PickerCard       *int       `json:"pickerCard"`
	RevealPrompt     bool       `json:"revealPrompt"`
}

func newRound(writerIndex, pickerIndex int) *Round {
	return &Round{
		Phase:       PhaseAwaitingPrompt,
		WriterIndex: writerIndex,
		PickerIndex: pickerIndex,
	}
}

// Start deals every player a fresh hand and installs the first round. Only the
// host may start, the game must not already be running, and at least MinPlayers
// players must be present. Assumes the room lock is held.
func (r *Room) Start(callerID uuid.UUID) error {
	if r.GameStarted {
		return ErrAlreadyStarted
	}
	if callerID != r.HostID {
		return ErrNotHost
	}
	if len(r.Players) < MinPlayers {
		return ErrNotEnoughPlayers
	}
	for _, p := range r.Players {
		p.Cards = deck.Deal(deck.HandSize)
	}
	r.GameStarted = true
	r.Round = newRound(0, 1)
	return nil
}

// SubmitPrompt records the writer's prompt and moves to player selection.
// Assumes the room lock is held.
func (r *Room) SubmitPrompt(callerID uuid.UUID, prompt string) error {
	if r.Round == nil {
		return ErrNotStarted
	}
	if r.Round.Phase != PhaseAwaitingPrompt {
		return ErrWrongPhase
	}
	writer := r.playerAt(r.Round.WriterIndex)
	if writer == nil || writer.ID != callerID {
		return ErrNotAuthorized
	}
	r.Round.Prompt = &prompt
	r.Round.Phase = PhaseAwaitingSelection
	return nil
}

// SelectPlayer records the picker's chosen target and moves to the card duel.
// Any player currently in the room is selectable, including the writer and the
// picker themselves. Assumes the room lock is held.
func (r *Room) SelectPlayer(callerID, targetID uuid.UUID) error {
	if r.Round == nil {
		return ErrNotStarted
	}
	if r.Round.Phase != PhaseAwaitingSelection {
		return ErrWrongPhase
	}
	picker := r.playerAt(r.Round.PickerIndex)
	if picker == nil || picker.ID != callerID {
		return ErrNotAuthorized
	}
	if !r.Member(targetID) {
		return ErrUnknownPlayer
	}
	r.Round.SelectedPlayerID = &targetID
	r.Round.Phase = PhaseAwaitingCards
	return nil
}

// PlayCard removes the chosen card from the caller's hand and records its value
// for the caller's role. Once both cards are in, the duel resolves: a strictly
// greater writer card wins outright (the prompt is force-revealed and the round
// completes); ties and picker wins hand the reveal decision to the picker.
// Returns whether both cards are now played and, if so, whether the writer won.
// Assumes the room lock is held.
func (r *Room) PlayCard(callerID uuid.UUID, cardIndex int) (bothPlayed, writerWins bool, err error) {
	if r.Round == nil {
		return false, false, ErrNotStarted
	}
	if r.Round.Phase != PhaseAwaitingCards {
		return false, false, ErrWrongPhase
	}

	writer := r.playerAt(r.Round.WriterIndex)
	picker := r.playerAt(r.Round.PickerIndex)

	var player *Player
	var slot **int
	switch {
	case writer != nil && writer.ID == callerID:
		player, slot = writer, &r.Round.WriterCard
	case picker != nil && picker.ID == callerID:
		player, slot = picker, &r.Round.PickerCard
	default:
		return false, false, ErrNotAuthorized
	}
	if *slot != nil {
		return false, false, ErrAlreadyPlayed
	}
	if cardIndex < 0 || cardIndex >= len(player.Cards) {
		return false, false, ErrInvalidCardIndex
	}

	value := player.Cards[cardIndex]
	player.Cards = append(player.Cards[:cardIndex], player.Cards[cardIndex+1:]...)
	*slot = &value

	if r.Round.WriterCard == nil || r.Round.PickerCard == nil {
		return false, false, nil
	}

	writerWins = *r.Round.WriterCard > *r.Round.PickerCard
	if writerWins {
		r.Round.RevealPrompt = true
		r.Round.Phase = PhaseRoundComplete
	} else {
		r.Round.Phase = PhasePickerChoice
	}
	return true, writerWins, nil
}

// ChooseReveal records the picker's reveal decision and completes the round.
// Only reachable when the picker's card tied or beat the writer's.
// Assumes the room lock is held.
func (r *Room) ChooseReveal(callerID uuid.UUID, reveal bool) error {
	if r.Round == nil {
		return ErrNotStarted
	}
	if r.Round.Phase != PhasePickerChoice {
		return ErrWrongPhase
	}
	picker := r.playerAt(r.Round.PickerIndex)
	if picker == nil || picker.ID != callerID {
		return ErrNotAuthorized
	}
	r.Round.RevealPrompt = reveal
	r.Round.Phase = PhaseRoundComplete
	return nil
}

// AdvanceRound replaces a completed round with a fresh one. Both role indices
// advance by one modulo the player count as it is right now, so a player who
// left mid-round is skipped naturally. Any player left holding fewer than 2
// cards has their whole hand replaced with a fresh deal. Not role-restricted:
// any member may advance. Assumes the room lock is held.
func (r *Room) AdvanceRound() error {
	if r.Round == nil {
		return ErrNotStarted
	}
	if r.Round.Phase != PhaseRoundComplete {
		return ErrWrongPhase
	}
	count := len(r.Players)
	if count == 0 {
		return ErrNotEnoughPlayers
	}
	writerIndex := (r.Round.WriterIndex + 1) % count
	pickerIndex := (writerIndex + 1) % count
	for _, p := range r.Players {
		if len(p.Cards) < 2 {
			p.Cards = deck.Deal(deck.HandSize)
		}
	}
	r.Round = newRound(writerIndex, pickerIndex)
	return nil
}
