package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseTitleNums splits a comma-separated titles query value into title
// numbers. An empty value means no filter.
func parseTitleNums(csv string) ([]int, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, nil
	}

	var nums []int
	for _, token := range strings.Split(csv, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		num, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("invalid title number %q", token)
		}
		nums = append(nums, num)
	}
	return nums, nil
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
