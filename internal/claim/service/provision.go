package service

import (
	"context"
	"strings"

	actormodels "github.com/Malmz/TalesFromTheSprawl/internal/actor/models"
	handlemodels "github.com/Malmz/TalesFromTheSprawl/internal/handle/models"
	templatemodels "github.com/Malmz/TalesFromTheSprawl/internal/template/models"
	dErrors "github.com/Malmz/TalesFromTheSprawl/pkg/domain-errors"
)

// provision materializes the actor's starting state from a template:
// primary funding first, then the three alias lists in fixed order, then
// group enrollment. The template is read-only here and idempotent to
// re-apply: aliases that already exist are skipped without a report line
// and without re-funding.
func (s *Service) provision(ctx context.Context, actor *actormodels.Actor, primary handlemodels.Handle, tmpl *templatemodels.ProvisioningTemplate) (string, error) {
	var b strings.Builder
	b.WriteString(loadingLine(primary.ID))

	if actor.Kind.CanHoldBalance() {
		if err := s.ledger.Credit(ctx, primary.ID, tmpl.StartingBalance); err != nil {
			return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "ledger unavailable")
		}
		b.WriteString(balanceLine(primary.ID, tmpl.StartingBalance))
	}

	aliasLists := []struct {
		kind  handlemodels.HandleKind
		seeds []templatemodels.AliasSeed
	}{
		{handlemodels.KindRegular, tmpl.Handles},
		{handlemodels.KindBurner, tmpl.Burners},
		{handlemodels.KindNPC, tmpl.NPCHandles},
	}
	for _, list := range aliasLists {
		if err := s.provisionAliases(ctx, &b, actor.ID, list.kind, list.seeds); err != nil {
			return "", err
		}
	}

	if err := s.enrollGroups(ctx, &b, actor.ID, tmpl.Groups); err != nil {
		return "", err
	}

	b.WriteString(allLoadedLine(primary.ID))
	return b.String(), nil
}

// provisionAliases creates the aliases of one kind. Each newly created
// alias is credited its initial balance and reported with a kind-specific
// line; if any alias of the kind was added, one trailing capability note is
// appended.
func (s *Service) provisionAliases(ctx context.Context, b *strings.Builder, actorID string, kind handlemodels.HandleKind, seeds []templatemodels.AliasSeed) error {
	anyAdded := false
	for _, seed := range seeds {
		h, err := s.registry.CreateHandle(ctx, actorID, seed.ID, kind)
		if err != nil {
			return err
		}
		if !h.IsUsable() {
			// Taken (already provisioned earlier) or a placeholder: silent skip.
			continue
		}
		b.WriteString(aliasLine(kind, h.ID, seed.Balance))
		if err := s.ledger.Credit(ctx, h.ID, seed.Balance); err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "ledger unavailable")
		}
		anyAdded = true
		if s.metrics != nil {
			s.metrics.AliasesProvisioned.Inc()
		}
	}
	if anyAdded {
		b.WriteString(aliasKindNote(kind))
	}
	return nil
}

// enrollGroups ensures group existence and membership for every real group
// in the template. Placeholder names are scaffold examples and never touch
// the directory.
func (s *Service) enrollGroups(ctx context.Context, b *strings.Builder, actorID string, names []string) error {
	anyFound := false
	for _, name := range names {
		if templatemodels.IsPlaceholder(name) {
			continue
		}
		anyFound = true

		exists, err := s.groups.Exists(ctx, name)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "group directory unavailable")
		}
		if exists {
			err = s.groups.AddMember(ctx, name, actorID)
		} else {
			err = s.groups.Create(ctx, name, []string{actorID})
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "group directory unavailable")
		}

		ref, err := s.groups.MainChannelRef(ctx, name)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "group directory unavailable")
		}
		b.WriteString(groupLine(ref))
		if s.metrics != nil {
			s.metrics.GroupsEnrolled.Inc()
		}
	}
	if anyFound {
		b.WriteString(groupsNote())
	}
	return nil
}
