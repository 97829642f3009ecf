// Package task manages background job queuing and processing. It provides
// the bounded queue and worker pool that execute extraction work
// asynchronously, so document uploads never block HTTP request handling.
package task
