// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package bdd defines a concrete type for Binary Decision Diagrams (BDD), a data
structure used to efficiently represent Boolean functions over a fixed set of
variables, or equivalently sets of Boolean vectors of a fixed size.

Basics

A Manager has a fixed number of variables, Varnum, declared when it is built
(with New) and each variable is represented by an (integer) index in the
interval [0..Varnum), called a level. A single process may build several
independent Managers, each with its own node table.

Most operations return a Node: a pointer to a vertex of the shared decision
diagram, carrying a variable level and the address of its low and high
branches. We use plain integers to address nodes internally, with the
convention that 1 (respectively 0) addresses the constant True (respectively
False).

Automatic memory management

The manager is written in pure Go. We piggyback on the garbage collector
offered by the host language: external references to nodes made by caller code
(values of type Node) are automatically reclaimed by the Go runtime through
runtime.SetFinalizer, which decrements the node's internal reference count.
Internal, transient references created while building a result (for instance
the two recursive calls of apply) are tracked on an explicit ref stack instead,
since installing and running a finalizer for every such reference would be far
too costly.
*/
package bdd
