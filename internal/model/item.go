package model

import "time"

// ItemCategory classifies a collectible item by how it should be disposed of
type ItemCategory string

const (
	CategoryRecyclable ItemCategory = "recyclable"
	CategoryOrganic    ItemCategory = "organic"
	CategoryHazardous  ItemCategory = "hazardous"
	CategoryLandfill   ItemCategory = "landfill"
)

// Valid reports whether c is a known item category
func (c ItemCategory) Valid() bool {
	switch c {
	case CategoryRecyclable, CategoryOrganic, CategoryHazardous, CategoryLandfill:
		return true
	}
	return false
}

// Item is a piece of litter collected from a classified scene photo
type Item struct {
	ID           string
	Name         string
	Category     ItemCategory
	BenefitValue float64 // ecological benefit weight, >= 0
	CollectedAt  time.Time
}

// ContainerCategory classifies a disposal container detected in a scene
type ContainerCategory string

const (
	ContainerRecycling ContainerCategory = "recycling"
	ContainerCompost   ContainerCategory = "compost"
	ContainerHazmat    ContainerCategory = "hazmat"
	ContainerGarbage   ContainerCategory = "garbage"
	ContainerUnsorted  ContainerCategory = "unsorted" // redeems nothing
)

// Valid reports whether c is a known container category
func (c ContainerCategory) Valid() bool {
	switch c {
	case ContainerRecycling, ContainerCompost, ContainerHazmat, ContainerGarbage, ContainerUnsorted:
		return true
	}
	return false
}

// Container is a disposal point detected in a classified scene photo
type Container struct {
	Name     string
	Category ContainerCategory
}

// Classification is the scene analysis for one photo: the items that can
// be collected from it and the containers items could be deposited into
type Classification struct {
	Items       []Item
	Containers  []Container
	Description string
}

// Empty reports whether the classification found nothing usable
func (c *Classification) Empty() bool {
	return c == nil || (len(c.Items) == 0 && len(c.Containers) == 0)
}
