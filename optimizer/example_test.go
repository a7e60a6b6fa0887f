package optimizer_test

import (
	"fmt"
	"time"

	"github.com/katalvlaran/transferopt/optimizer"
	"github.com/katalvlaran/transferopt/snapshot"
)

// ExampleSolve frees two seats in a full group A by moving both of its
// students to group B.
func ExampleSolve() {
	created := time.Date(2024, 9, 1, 9, 0, 0, 0, time.UTC)
	groups := []snapshot.Group{
		{ID: 1, ElectiveID: 10, Name: "A", Capacity: 2, InitUsage: 2},
		{ID: 2, ElectiveID: 20, Name: "B", Capacity: 5},
	}
	requests := []snapshot.Request{
		{ID: 1, StudentID: 7, FromElectiveID: 10, ToElectiveID: 20, Priority: 1, CreatedAt: created,
			FromGroups: []int64{1}, ToGroups: []int64{2}},
		{ID: 2, StudentID: 8, FromElectiveID: 10, ToElectiveID: 20, Priority: 1, CreatedAt: created,
			FromGroups: []int64{1}, ToGroups: []int64{2}},
	}

	res, err := optimizer.Solve(groups, requests, optimizer.WithAlgorithm(optimizer.ILP))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(res.Status, res.Objective, res.AcceptedRequestIDs)

	// Output:
	// optimal 10 [1 2]
}

// ExampleSolve_uniqueness keeps only the student's first choice.
func ExampleSolve_uniqueness() {
	groups := []snapshot.Group{{ID: 1, Capacity: 9}, {ID: 2, Capacity: 9}}
	requests := []snapshot.Request{
		{ID: 1, StudentID: 7, FromElectiveID: 10, Priority: 2, ToGroups: []int64{1}},
		{ID: 2, StudentID: 7, FromElectiveID: 10, Priority: 1, ToGroups: []int64{2}},
	}

	res, _ := optimizer.Solve(groups, requests, optimizer.WithAlgorithm(optimizer.Greedy))
	fmt.Println(res.Status, res.AcceptedRequestIDs)

	// Output:
	// heuristic [2]
}
