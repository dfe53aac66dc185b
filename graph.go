package beans

// DependencyGraph records which beans were injected into which.
// It is filled during wiring and read for inspection and teardown.
type DependencyGraph struct {
	nodes map[string]*node
	order []string // registration order
}

type node struct {
	name         string
	dependencies []string
}

// NewDependencyGraph creates a new dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[string]*node),
		order: make([]string, 0),
	}
}

// AddNode adds a bean. Adding an existing bean is a no-op; the first add fixes
// its position in the registration order.
func (g *DependencyGraph) AddNode(name string) {
	if _, ok := g.nodes[name]; ok {
		return
	}
	g.nodes[name] = &node{name: name}
	g.order = append(g.order, name)
}

// AddEdge records that name depends on dependency. Duplicate edges are ignored.
func (g *DependencyGraph) AddEdge(name, dependency string) {
	g.AddNode(name)

	n := g.nodes[name]
	for _, d := range n.dependencies {
		if d == dependency {
			return
		}
	}
	n.dependencies = append(n.dependencies, dependency)
}

// GetDependencies returns the beans injected into name, in injection order.
func (g *DependencyGraph) GetDependencies(name string) []string {
	if node, ok := g.nodes[name]; ok {
		out := make([]string, len(node.dependencies))
		copy(out, node.dependencies)
		return out
	}

	return nil
}

// TopologicalSort returns nodes with dependencies before dependents.
// Nodes without dependencies maintain their registration order (FIFO).
// Cycles are not an error: a node already on the current path is skipped,
// so every node appears exactly once.
func (g *DependencyGraph) TopologicalSort() []string {
	visited := make(map[string]bool)
	result := make([]string, 0, len(g.nodes))

	for _, name := range g.order {
		g.visit(name, visited, &result)
	}

	return result
}

// visit performs DFS traversal.
func (g *DependencyGraph) visit(name string, visited map[string]bool, result *[]string) {
	if visited[name] {
		return
	}

	node := g.nodes[name]
	if node == nil {
		return
	}

	visited[name] = true

	for _, dep := range node.dependencies {
		g.visit(dep, visited, result)
	}

	*result = append(*result, name)
}

// ReleaseOrder returns the beans dependents first, the order teardown needs.
func (g *DependencyGraph) ReleaseOrder() []string {
	order := g.TopologicalSort()
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}

	return order
}
