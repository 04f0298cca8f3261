package types

import "sort"

// IssueRecord describes one issue to be materialized
type IssueRecord struct {
	Number    int      `yaml:"number" json:"number"`
	Title     string   `yaml:"title" json:"title"`
	Body      string   `yaml:"body" json:"body"`
	Milestone string   `yaml:"milestone" json:"milestone"`
	Labels    []string `yaml:"labels" json:"labels"`
}

// Catalog maps issue numbers to their records. It is built once at
// startup and never mutated afterwards.
type Catalog map[int]IssueRecord

// Numbers returns the issue numbers in ascending order.
func (c Catalog) Numbers() []int {
	nums := make([]int, 0, len(c))
	for n := range c {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}
