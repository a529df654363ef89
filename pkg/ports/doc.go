/*
Package ports defines the capability contract between the enhance decorator and
the host application it augments.

These interfaces decouple the decorator from any concrete host, and the host from
the backend used to keep its options.

# Key Interfaces

  - Application: The capabilities consumed by the decorator (markers, options, method table, error channel).
  - Plugin: A unit of behavior invoked with the host, optionally producing a Transformer.
  - OptionsStore: Responsible for holding the shared options mapping (memory, Redis).
  - DistributedLocker: Guards the options merge when the store is shared between replicas.
*/
package ports
