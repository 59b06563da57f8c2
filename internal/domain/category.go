package domain

// ServiceCategory is a service taxonomy entry. Directory categories carry a
// stable ID; synthetic provider categories have an empty one.
type ServiceCategory struct {
	ID          string
	Name        string
	Slug        string
	IconName    string
	Description string
	SortOrder   int
}

// Synthetic category attached to provider records that expose no usable
// category data of their own.
const (
	GeneralRepairSlug = "general-repair"
	GeneralRepairName = "General Automotive Repair"
	GeneralRepairIcon = "wrench"
)

// GeneralRepairCategory returns the synthetic fallback category for
// provider-sourced records.
func GeneralRepairCategory() ServiceCategory {
	return ServiceCategory{
		Name:     GeneralRepairName,
		Slug:     GeneralRepairSlug,
		IconName: GeneralRepairIcon,
	}
}
