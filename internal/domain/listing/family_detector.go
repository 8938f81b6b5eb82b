package listing

import "github.com/jhoicas/Publicador-api/internal/domain/entity"

// DetectFamilies particiona los productos elegibles en sueltos y familias
// de variación a partir de las asociaciones declaradas.
//
// Construye un grafo no dirigido sobre los SKUs de proveedor: cada registro
// aporta aristas hacia sus asociados, y las aristas se crean en ambos
// sentidos aunque solo un lado declare el vínculo. Una asociación que
// apunta a un SKU fuera del conjunto elegible se descarta en silencio (la
// arista se poda, no es un error). Las componentes conexas se obtienen con
// un recorrido iterativo de pila explícita: una familia patológicamente
// grande no puede agotar el call stack.
//
// El orden de los sueltos y de los miembros de cada familia es el de primer
// avistamiento en la entrada, así que corridas sobre el mismo insumo
// producen agrupaciones idénticas.
func DetectFamilies(records []entity.AssociationRecord) (standalone []string, families [][]string) {
	if len(records) == 0 {
		return nil, nil
	}

	vendorToInternal := make(map[string]string, len(records))
	for _, rec := range records {
		vendorToInternal[rec.VendorSKU] = rec.InternalSKU
	}

	// Lista de adyacencia con slices para preservar el orden de declaración.
	adjacency := make(map[string][]string, len(records))
	seenEdge := make(map[[2]string]bool)
	addEdge := func(a, b string) {
		if seenEdge[[2]string{a, b}] {
			return
		}
		seenEdge[[2]string{a, b}] = true
		adjacency[a] = append(adjacency[a], b)
	}
	for _, rec := range records {
		for _, assoc := range rec.Associates {
			if _, eligible := vendorToInternal[assoc]; !eligible {
				continue // asociado fuera del conjunto elegible: arista podada
			}
			if assoc == rec.VendorSKU {
				continue
			}
			addEdge(rec.VendorSKU, assoc)
			addEdge(assoc, rec.VendorSKU)
		}
	}

	visited := make(map[string]bool, len(records))

	for _, rec := range records {
		if visited[rec.VendorSKU] {
			continue
		}

		if len(adjacency[rec.VendorSKU]) == 0 {
			visited[rec.VendorSKU] = true
			standalone = append(standalone, rec.InternalSKU)
			continue
		}

		component := collectComponent(rec.VendorSKU, adjacency, visited)

		members := make([]string, 0, len(component))
		for _, vendor := range component {
			if internal, ok := vendorToInternal[vendor]; ok {
				members = append(members, internal)
			}
		}
		if len(members) > 1 {
			families = append(families, members)
		} else {
			standalone = append(standalone, members...)
		}
	}

	return standalone, families
}

// collectComponent recorre la componente conexa de start con una pila
// explícita (DFS iterativo) y la devuelve en orden de visita.
func collectComponent(start string, adjacency map[string][]string, visited map[string]bool) []string {
	var component []string
	stack := []string{start}
	visited[start] = true

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		component = append(component, node)

		for _, neighbor := range adjacency[node] {
			if !visited[neighbor] {
				visited[neighbor] = true
				stack = append(stack, neighbor)
			}
		}
	}
	return component
}
