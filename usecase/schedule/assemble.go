package schedule

import (
	"time"

	"github.com/fastygo/loftplanner/domain"
)

// Assemble builds the read model for one occurrence of tpl.
func Assemble(tpl domain.TaskTemplate, date time.Time, match *domain.Completion) domain.Instance {
	inst := domain.Instance{
		TemplateID:           tpl.ID,
		InstanceDate:         date,
		Title:                tpl.Title,
		TitleSecondary:       tpl.TitleSecondary,
		Description:          tpl.Description,
		DescriptionSecondary: tpl.DescriptionSecondary,
		Category:             tpl.Category,
		Priority:             tpl.Priority,
		Frequency:            tpl.Frequency,
		Time:                 tpl.Time,
	}
	if tpl.LoftID != nil {
		loftID := *tpl.LoftID
		inst.LoftID = &loftID
	}
	if match != nil {
		inst.IsCompleted = true
		inst.CompletionID = match.ID
		inst.Notes = match.Notes
	}
	return inst
}
