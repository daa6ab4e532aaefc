// Command pagectl drives the physical page allocator over a simulated
// machine: it reports the memory layout, exhausts and refills the pool, and
// runs concurrent fork-style stress against it.
package main

func main() {
	execute()
}
