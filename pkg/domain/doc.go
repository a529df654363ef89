/*
Package domain contains the core types shared by the enhance decorator, its host
application and the adapters.

It is kept pure and free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - Options: The shared configuration mapping attached to a host. Merged shallowly.
  - Context: The value passed through a run, transformed by smart plugins.
  - Transformer: The function a smart plugin returns for later batch execution.
  - PluginError: The payload emitted on the error channel when a failure is contained.
  - LifecycleHooks: Observability callbacks fired by the decorator.
*/
package domain
